// File: internal/flow/controller.go
package flow

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
	"github.com/xkilldash9x/usher/internal/steps"
	"github.com/xkilldash9x/usher/internal/strategy"
)

// Guardian is the workflow guard contract the controller sequences
// around every transition. The guard package provides the production
// implementation.
type Guardian interface {
	Ensure(ctx context.Context, stage string) error
}

// Controller sequences one run: navigate, then guard/step/guard through
// login, seat selection and checkout. It is the only caller of the other
// components, and nothing in it survives past a single run.
type Controller struct {
	runID  string
	target string
	page   browser.Page
	guard  Guardian
	bundle strategy.Bundle
	creds  steps.Credentials
	logger *zap.Logger

	state State
}

// NewController assembles a controller for one run.
func NewController(
	runID string,
	target string,
	page browser.Page,
	guard Guardian,
	bundle strategy.Bundle,
	creds steps.Credentials,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		runID:  runID,
		target: target,
		page:   page,
		guard:  guard,
		bundle: bundle,
		creds:  creds,
		logger: logger.Named("controller"),
		state:  StateInit,
	}
}

// State exposes the controller's current position, mainly for logs and
// tests.
func (c *Controller) State() State {
	return c.state
}

// stepAttempt is one workflow step in sequence order.
type stepAttempt struct {
	name string
	next State
	run  func(ctx context.Context) (bool, error)
}

// Run drives the state machine to a terminal outcome. Every step attempt
// (success or failure) is followed by a guard cycle; a failed step gets
// exactly that one guard cycle as its recovery chance, and continued
// divergence afterwards fails the run tagged with the step name. The
// guard never re-runs a step; the controller only ever moves forward.
func (c *Controller) Run(ctx context.Context) Outcome {
	c.logger.Info("Starting run",
		zap.String("run_id", c.runID),
		zap.String("target", c.target),
		zap.String("strategy", c.bundle.Name))

	if err := c.page.Navigate(ctx, c.target); err != nil {
		return c.fail(StepNavigate, err.Error())
	}
	c.transition(StateNavigated)

	if err := c.guard.Ensure(ctx, StepNavigate); err != nil {
		return c.fail(StepNavigate, err.Error())
	}

	sequence := []stepAttempt{
		{
			name: StepLogin,
			next: StateLoggedIn,
			run: func(ctx context.Context) (bool, error) {
				return steps.Login(ctx, c.page, c.bundle.Login, c.creds, c.logger)
			},
		},
		{
			name: StepSeat,
			next: StateSeatSelected,
			run: func(ctx context.Context) (bool, error) {
				return steps.SelectSeat(ctx, c.page, c.bundle.Seat, c.logger)
			},
		},
		{
			name: StepCheckout,
			next: StateCheckedOut,
			run: func(ctx context.Context) (bool, error) {
				return steps.Checkout(ctx, c.page, c.bundle.Checkout, c.bundle.ConfirmPhrases, c.logger)
			},
		},
	}

	for _, step := range sequence {
		if err := ctx.Err(); err != nil {
			return c.fail(step.name, err.Error())
		}

		done, err := step.run(ctx)
		switch {
		case err != nil:
			c.logger.Error("Step raised an error", zap.String("step", step.name), zap.Error(err))
		case !done:
			c.logger.Warn("Step inconclusive", zap.String("step", step.name))
		}

		if gerr := c.guard.Ensure(ctx, step.name); gerr != nil {
			cause := gerr.Error()
			if err != nil {
				cause = err.Error() + "; " + cause
			}
			return c.fail(step.name, cause)
		}

		if !done || err != nil {
			// The page still reads as on-workflow, so the flow may have
			// advanced through a path the step executor did not
			// recognize. Move on; the next step's guard cycle will catch
			// a real dead end.
			c.logger.Warn("Continuing past unresolved step on clean workflow state",
				zap.String("step", step.name))
		}
		c.transition(step.next)
	}

	c.transition(StateSuccess)
	c.logger.Info("Run completed", zap.String("run_id", c.runID))
	return Outcome{RunID: c.runID, Target: c.target, Succeeded: true}
}

func (c *Controller) transition(next State) {
	c.logger.Debug("State transition", zap.String("from", string(c.state)), zap.String("to", string(next)))
	c.state = next
}

func (c *Controller) fail(step, cause string) Outcome {
	c.transition(StateFailed)
	c.logger.Error("Run failed",
		zap.String("run_id", c.runID),
		zap.String("step", step),
		zap.String("cause", cause))
	return Outcome{
		RunID:      c.runID,
		Target:     c.target,
		Succeeded:  false,
		FailedStep: step,
		Cause:      cause,
	}
}
