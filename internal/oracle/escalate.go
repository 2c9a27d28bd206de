// File: internal/oracle/escalate.go
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/usher/internal/browser"
)

// maxDOMChars bounds the document structure embedded in the prompt.
// Ticketing pages routinely serialize to megabytes of markup.
const maxDOMChars = 100_000

// Escalator packages the page state and context, consults the oracle and
// returns a validated instruction set. Every failure along the way
// degrades to an empty set; escalation is never a fatal path by itself.
type Escalator struct {
	client  Client
	page    browser.Page
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// NewEscalator wires an escalator for one run. minInterval is a rate
// floor between oracle calls so a flapping guard cannot hammer the API.
func NewEscalator(client Client, page browser.Page, timeout, minInterval time.Duration, logger *zap.Logger) *Escalator {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &Escalator{
		client:  client,
		page:    page,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		timeout: timeout,
		logger:  logger.Named("escalator"),
	}
}

// Escalate captures the current page state, asks the oracle for
// corrective UI actions given the divergence reason and the expected URL
// hints, and returns the validated instructions. An unreachable oracle,
// a failed capture or an unparsable response all yield an empty set.
func (e *Escalator) Escalate(ctx context.Context, reason string, hints []string) []Instruction {
	if e.client == nil {
		e.logger.Debug("Escalation requested but oracle is disabled")
		return nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil
	}

	state, err := e.capturePageState(ctx)
	if err != nil {
		// No retry on capture failure; the page is in motion and a stale
		// snapshot is worse than none.
		e.logger.Warn("Failed to capture page state for escalation", zap.Error(err))
		return nil
	}

	prompt := buildPrompt(state, reason, hints)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.GenerateContent(callCtx, prompt, state.Screenshot)
	if err != nil {
		e.logger.Warn("Oracle unavailable; no correction applied", zap.Error(err))
		return nil
	}

	instructions := ParseInstructions(raw, e.logger)
	e.logger.Info("Oracle escalation complete",
		zap.String("reason", reason),
		zap.Int("instructions", len(instructions)))
	return instructions
}

// capturePageState snapshots the page. The structure serialization and
// the screenshot are issued together and awaited jointly; the combined
// snapshot is consumed immediately and never cached.
func (e *Escalator) capturePageState(ctx context.Context) (PageState, error) {
	current, err := e.page.CurrentURL(ctx)
	if err != nil {
		return PageState{}, err
	}

	var (
		dom  string
		shot []byte
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var derr error
		dom, derr = e.page.OuterHTML(gctx)
		return derr
	})
	g.Go(func() error {
		var serr error
		shot, serr = e.page.Screenshot(gctx)
		return serr
	})
	if err := g.Wait(); err != nil {
		return PageState{}, err
	}

	if len(dom) > maxDOMChars {
		dom = dom[:maxDOMChars]
	}
	return PageState{URL: current, DOM: dom, Screenshot: shot}, nil
}

// buildPrompt embeds the current URL, the divergence reason and the full
// allowlist as expected-URL hints, then asks for a bounded JSON batch.
func buildPrompt(state PageState, reason string, hints []string) string {
	var b strings.Builder
	b.WriteString("You are assisting an automated ticket-booking workflow that has gone off course.\n")
	fmt.Fprintf(&b, "Current page URL: %s\n", state.URL)
	fmt.Fprintf(&b, "Why you are being consulted: %s\n\n", reason)

	b.WriteString("URL patterns that are part of the expected workflow:\n")
	for _, h := range hints {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	b.WriteString("\nUsing the attached screenshot and the HTML below, respond with ONLY a JSON array of UI actions that steer the page back into the expected workflow. Schema:\n")
	b.WriteString(`[{"action":"click","selector":"<css>"},{"action":"type","selector":"<css>","value":"<text>"}]` + "\n")
	b.WriteString("Rules: at most " + fmt.Sprint(maxInstructions) + " actions; selectors must be single-line CSS; no explanations.\n\n")

	b.WriteString("Page HTML:\n")
	b.WriteString(state.DOM)
	return b.String()
}
