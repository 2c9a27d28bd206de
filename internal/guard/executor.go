// File: internal/guard/executor.go
package guard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
	"github.com/xkilldash9x/usher/internal/oracle"
)

// actionTimeout bounds each individual instruction against the page.
const actionTimeout = 5 * time.Second

// InstructionExecutor applies validated oracle instructions against the
// live page. Failures are isolated per instruction; one dead selector
// never aborts the batch.
type InstructionExecutor struct {
	page   browser.Page
	logger *zap.Logger
}

// NewInstructionExecutor builds the executor for one run's page.
func NewInstructionExecutor(page browser.Page, logger *zap.Logger) *InstructionExecutor {
	return &InstructionExecutor{
		page:   page,
		logger: logger.Named("instructions"),
	}
}

// Apply executes the batch in order and reports whether at least one
// instruction took effect. Each instruction is consumed exactly once;
// there is no retry of a failed click or fill.
func (e *InstructionExecutor) Apply(ctx context.Context, batch []oracle.Instruction) bool {
	applied := 0
	for _, in := range batch {
		if ctx.Err() != nil {
			break
		}

		var err error
		switch in.Action {
		case oracle.ActionClick:
			err = e.page.Click(ctx, in.Selector, actionTimeout)
		case oracle.ActionType:
			err = e.page.Fill(ctx, in.Selector, in.Value, actionTimeout)
		default:
			// Validation upstream only admits click and type.
			continue
		}

		if err != nil {
			e.logger.Warn("Oracle instruction failed; continuing with batch",
				zap.String("action", string(in.Action)),
				zap.String("selector", in.Selector),
				zap.Error(err))
			continue
		}
		applied++
		e.logger.Debug("Applied oracle instruction",
			zap.String("action", string(in.Action)),
			zap.String("selector", in.Selector))
	}

	if applied == 0 && len(batch) > 0 {
		e.logger.Warn("No oracle instruction could be applied", zap.Int("batch_size", len(batch)))
	}
	return applied > 0
}
