// File: internal/steps/steps.go
package steps

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
)

// candidateWait bounds the visibility poll per candidate selector. Kept
// short: a strategy list is walked in full before a step gives up.
const candidateWait = 2 * time.Second

// Credentials is the login credential pair supplied by the orchestrator.
type Credentials struct {
	Username string
	Password string
}

// firstVisible walks candidates in priority order and returns the first
// one whose match is visible within the per-candidate budget. The second
// return is false when every candidate missed.
func firstVisible(ctx context.Context, page browser.Page, candidates []string, logger *zap.Logger) (string, bool) {
	for _, sel := range candidates {
		if ctx.Err() != nil {
			return "", false
		}
		if err := page.WaitVisible(ctx, sel, candidateWait); err == nil {
			logger.Debug("Candidate matched", zap.String("selector", sel))
			return sel, true
		}
	}
	return "", false
}
