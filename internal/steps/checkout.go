// File: internal/steps/checkout.go
package steps

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
	"github.com/xkilldash9x/usher/internal/strategy"
)

// Checkout attempts the final purchase step. Primary and fallback button
// candidates are tried first; as a last resort the rendered body text is
// scanned for the bundle's confirmation phrases, which covers flows that
// auto-advance past the checkout button.
func Checkout(ctx context.Context, page browser.Page, st strategy.StepStrategy, confirmPhrases []string, logger *zap.Logger) (bool, error) {
	log := logger.Named("checkout")

	if sel, ok := firstVisible(ctx, page, st.Primary, log); ok {
		if err := page.Click(ctx, sel, candidateWait); err != nil {
			return false, fmt.Errorf("failed to click checkout candidate %q: %w", sel, err)
		}
		log.Info("Checkout initiated", zap.String("selector", sel))
		return true, nil
	}

	if sel, ok := firstVisible(ctx, page, st.Fallback, log); ok {
		if err := page.Click(ctx, sel, candidateWait); err != nil {
			return false, fmt.Errorf("failed to click checkout fallback %q: %w", sel, err)
		}
		log.Info("Checkout initiated via fallback", zap.String("selector", sel))
		return true, nil
	}

	body, err := page.BodyText(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to scan page for confirmation text: %w", err)
	}
	lower := strings.ToLower(body)
	for _, phrase := range confirmPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			log.Info("Confirmation text found; checkout already complete", zap.String("phrase", phrase))
			return true, nil
		}
	}

	log.Warn("No checkout candidate or confirmation text found; step inconclusive")
	return false, nil
}
