// File: internal/steps/seat.go
package steps

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
	"github.com/xkilldash9x/usher/internal/strategy"
)

// SelectSeat attempts the seat-selection step: click the first visible
// seat candidate, falling through to the generic book/reserve buttons
// when the seat map yields nothing. Exhausting both lists is an
// inconclusive (false, nil) result, not an error.
func SelectSeat(ctx context.Context, page browser.Page, st strategy.StepStrategy, logger *zap.Logger) (bool, error) {
	log := logger.Named("seat")

	if sel, ok := firstVisible(ctx, page, st.Primary, log); ok {
		if err := page.Click(ctx, sel, candidateWait); err != nil {
			return false, fmt.Errorf("failed to click seat candidate %q: %w", sel, err)
		}
		log.Info("Seat selected", zap.String("selector", sel))
		return true, nil
	}

	if sel, ok := firstVisible(ctx, page, st.Fallback, log); ok {
		if err := page.Click(ctx, sel, candidateWait); err != nil {
			return false, fmt.Errorf("failed to click booking fallback %q: %w", sel, err)
		}
		log.Info("Booking entry clicked via fallback", zap.String("selector", sel))
		return true, nil
	}

	log.Warn("No seat or booking candidate visible; step inconclusive")
	return false, nil
}
