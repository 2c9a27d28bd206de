// File: internal/browser/page.go
package browser

import (
	"context"
	"time"
)

// Page is the narrow contract the workflow core consumes. Every blocking
// primitive takes a context and a bounded timeout; none may block
// indefinitely. The chromedp Session is the production implementation,
// and tests substitute mocks.
type Page interface {
	// Navigate loads the URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error
	// CurrentURL returns the URL the page is currently on.
	CurrentURL(ctx context.Context) (string, error)
	// WaitVisible blocks until the first match for the selector is
	// visible, or the timeout elapses (returned as an error).
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Click clicks the first visible match for the selector.
	Click(ctx context.Context, selector string, timeout time.Duration) error
	// Fill replaces the content of the first match with value.
	Fill(ctx context.Context, selector, value string, timeout time.Duration) error
	// Submit submits the form associated with the selector.
	Submit(ctx context.Context, selector string, timeout time.Duration) error
	// OuterHTML returns the serialized document structure.
	OuterHTML(ctx context.Context) (string, error)
	// Screenshot returns a PNG capture of the viewport.
	Screenshot(ctx context.Context) ([]byte, error)
	// BodyText returns the rendered text content of the document body.
	BodyText(ctx context.Context) (string, error)
	// Sleep pauses without touching the page, honoring ctx cancellation.
	Sleep(ctx context.Context, d time.Duration) error
}
