// File: internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/config"
)

// Session wraps a single chromedp browser context. One Session serves one
// run; no state is shared across runs.
type Session struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// defaultUserAgent mirrors a current stable desktop Chrome. Sites serving
// the workflow behave differently for obviously-headless agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"

// NewSession launches a browser and returns a live session. The caller
// owns the session and must Close it.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-first-run", true),
		chromedp.WindowSize(1400, 900),
		chromedp.UserAgent(ua),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	taskCtx, cancel := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so a broken Chrome install
	// surfaces here instead of mid-workflow.
	if err := chromedp.Run(taskCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Debug("Browser session started", zap.Bool("headless", cfg.Headless))
	return &Session{
		cfg:         cfg,
		logger:      logger.Named("browser"),
		ctx:         taskCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Close tears down the browser context and process.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// run executes actions against the session under an operational context
// bounded by the given timeout.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, opCancel := combineContext(s.ctx, ctx)
	defer opCancel()

	if timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(opCtx, timeout)
		defer cancel()
	}
	return chromedp.Run(opCtx, actions...)
}

// Navigate loads the URL and lets the page settle before returning.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))

	navTimeout := s.cfg.NavTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	if err := s.run(ctx, navTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	// Quiet period so late scripts and redirects land before the guard
	// inspects the page.
	if err := s.Sleep(ctx, 1500*time.Millisecond); err != nil {
		return err
	}
	return nil
}

// CurrentURL returns the page's present location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, 5*time.Second, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read current URL: %w", err)
	}
	return loc, nil
}

// WaitVisible blocks until the selector's first match is visible or the
// timeout expires. chromedp polls internally, so the wait stays
// responsive to ctx cancellation.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("element not visible within %s: %s: %w", timeout, selector, err)
	}
	return nil
}

// Click scrolls to and clicks the first visible match for the selector.
func (s *Session) Click(ctx context.Context, selector string, timeout time.Duration) error {
	s.logger.Debug("Clicking element", zap.String("selector", selector))
	tasks := chromedp.Tasks{
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	}
	if err := s.run(ctx, timeout, tasks); err != nil {
		return fmt.Errorf("click failed for selector %q: %w", selector, err)
	}
	return nil
}

// Fill replaces the content of the first match with value.
func (s *Session) Fill(ctx context.Context, selector, value string, timeout time.Duration) error {
	s.logger.Debug("Filling element", zap.String("selector", selector), zap.Int("value_length", len(value)))
	tasks := chromedp.Tasks{
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	}
	if err := s.run(ctx, timeout, tasks); err != nil {
		return fmt.Errorf("fill failed for selector %q: %w", selector, err)
	}
	return nil
}

// Submit submits the form associated with the selector.
func (s *Session) Submit(ctx context.Context, selector string, timeout time.Duration) error {
	s.logger.Debug("Submitting form", zap.String("selector", selector))
	if err := s.run(ctx, timeout, chromedp.Submit(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("submit failed for selector %q: %w", selector, err)
	}
	return nil
}

// OuterHTML serializes the current document structure.
func (s *Session) OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, 10*time.Second, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture document structure: %w", err)
	}
	return html, nil
}

// Screenshot captures the viewport as PNG via the CDP Page domain.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	capture := chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			Do(ctx)
		return err
	})
	if err := s.run(ctx, 10*time.Second, capture); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// BodyText returns the rendered text of the document body.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	var text string
	if err := s.run(ctx, 5*time.Second, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read body text: %w", err)
	}
	return text, nil
}

// Sleep pauses without touching the page, honoring cancellation of both
// the session and the caller's context.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	opCtx, opCancel := combineContext(s.ctx, ctx)
	defer opCancel()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-opCtx.Done():
		return opCtx.Err()
	case <-timer.C:
		return nil
	}
}

// combineContext derives a context that is cancelled when either parent
// is. The session context carries the chromedp target, the caller's
// context carries the run deadline.
func combineContext(session, op context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(session)
	stop := context.AfterFunc(op, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
