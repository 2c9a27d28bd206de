// File: internal/guard/guard.go
package guard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
	"github.com/xkilldash9x/usher/internal/oracle"
)

// Escalator is the corrective-instruction source the guard consults when
// the page has diverged. The production implementation lives in the
// oracle package; tests substitute fakes.
type Escalator interface {
	Escalate(ctx context.Context, reason string, hints []string) []oracle.Instruction
}

// Guard is the adaptive workflow guard: classify, escalate once when
// divergent, apply the returned instructions, then re-check. It owns the
// only recovery path in the system.
type Guard struct {
	classifier  *Classifier
	escalator   Escalator
	executor    *InstructionExecutor
	allow       *Allowlist
	page        browser.Page
	settleDelay time.Duration
	logger      *zap.Logger
}

// New assembles the guard for one run.
func New(
	allow *Allowlist,
	page browser.Page,
	escalator Escalator,
	settleDelay time.Duration,
	logger *zap.Logger,
) *Guard {
	named := logger.Named("guard")
	return &Guard{
		classifier:  NewClassifier(allow, page, named),
		escalator:   escalator,
		executor:    NewInstructionExecutor(page, named),
		allow:       allow,
		page:        page,
		settleDelay: settleDelay,
		logger:      named,
	}
}

// Ensure checks that the page is still on the expected workflow and, if
// not, runs exactly one escalate-and-apply cycle before re-checking. A
// page that is still divergent after the cycle is a hard error carrying
// the divergence reason; the guard never re-invokes a step executor.
func (g *Guard) Ensure(ctx context.Context, stage string) error {
	status, err := g.classifier.Classify(ctx)
	if err != nil {
		return err
	}
	if !status.Divergent() {
		return nil
	}

	g.logger.Warn("Workflow divergence detected",
		zap.String("stage", stage),
		zap.String("url", status.URL),
		zap.String("reason", status.Reason()))

	instructions := g.escalator.Escalate(ctx, status.Reason(), g.allow.Entries())
	if g.executor.Apply(ctx, instructions) {
		// Give the page a moment to react before re-classifying.
		if err := g.page.Sleep(ctx, g.settleDelay); err != nil {
			return err
		}
	}

	status, err = g.classifier.Classify(ctx)
	if err != nil {
		return err
	}
	if status.Divergent() {
		return fmt.Errorf("workflow diverged at %s: %s (url: %s)", stage, status.Reason(), status.URL)
	}

	g.logger.Info("Workflow recovered after escalation", zap.String("stage", stage))
	return nil
}
