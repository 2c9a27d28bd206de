// -- cmd/run.go --
package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
	"github.com/xkilldash9x/usher/internal/config"
	"github.com/xkilldash9x/usher/internal/flow"
	"github.com/xkilldash9x/usher/internal/guard"
	"github.com/xkilldash9x/usher/internal/observability"
	"github.com/xkilldash9x/usher/internal/oracle"
	"github.com/xkilldash9x/usher/internal/steps"
	"github.com/xkilldash9x/usher/internal/strategy"
)

// errRunFailed keeps the outcome message out of double logging; the run
// command logs the message itself before returning this.
var errRunFailed = errors.New("booking workflow failed")

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Executes one booking workflow run against the configured target",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("run.target_url", cmd.Flags().Lookup("target")); err != nil {
				return err
			}
			return viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			// Configuration errors are fatal before any browser work.
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			// The start gate is a successful exit, not a failure; the
			// external scheduler retries later.
			notBefore, _ := cfg.Run.NotBeforeTime()
			if !notBefore.IsZero() && time.Now().Before(notBefore) {
				logger.Info("Start gate not reached; exiting for a later retry",
					zap.Time("not_before", notBefore))
				return errGateNotReached
			}

			runID := uuid.New().String()

			session, err := browser.NewSession(ctx, cfg.Browser, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			oracleClient, err := oracle.NewClient(ctx, cfg.Oracle, logger)
			if err != nil {
				return err
			}

			allow := guard.BuildAllowlist(cfg.Run.TargetURL)
			escalator := oracle.NewEscalator(
				oracleClient,
				session,
				cfg.Oracle.Timeout,
				cfg.Oracle.MinInterval,
				logger,
			)
			workflowGuard := guard.New(
				allow,
				session,
				escalator,
				cfg.Guard.SettleDelayOrDefault(),
				logger,
			)

			controller := flow.NewController(
				runID,
				cfg.Run.TargetURL,
				session,
				workflowGuard,
				strategy.Select(cfg.Run.TargetURL),
				steps.Credentials{Username: cfg.Run.Username, Password: cfg.Run.Password},
				logger,
			)

			outcome := controller.Run(ctx)

			// The outcome message is the notification payload; print it
			// on stdout regardless of the log sink.
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message())
			if !outcome.Succeeded {
				return fmt.Errorf("%w at %s: %s", errRunFailed, outcome.FailedStep, outcome.Cause)
			}
			return nil
		},
	}

	runCmd.Flags().String("target", "", "target URL for the booking workflow")
	runCmd.Flags().Bool("headless", true, "run the browser headless (set false to watch the run)")
	return runCmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
