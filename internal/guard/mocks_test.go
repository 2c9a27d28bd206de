// File: internal/guard/mocks_test.go
package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xkilldash9x/usher/internal/oracle"
)

// fakePage simulates the browser for guard tests. Visibility is a static
// map, so "bounded waits" return immediately and tests stay fast.
type fakePage struct {
	mu sync.Mutex

	url    string
	urlErr error

	visible map[string]bool

	clicks   []string
	fills    map[string]string
	clickErr map[string]error
	slept    []time.Duration
}

func newFakePage(url string) *fakePage {
	return &fakePage{
		url:      url,
		visible:  make(map[string]bool),
		fills:    make(map[string]string),
		clickErr: make(map[string]error),
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	return nil
}

func (p *fakePage) CurrentURL(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, p.urlErr
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible[selector] {
		return nil
	}
	return fmt.Errorf("element not visible: %s", selector)
}

func (p *fakePage) Click(ctx context.Context, selector string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.clickErr[selector]; err != nil {
		return err
	}
	p.clicks = append(p.clicks, selector)
	return nil
}

func (p *fakePage) Fill(ctx context.Context, selector, value string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fills[selector] = value
	return nil
}

func (p *fakePage) Submit(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (p *fakePage) OuterHTML(ctx context.Context) (string, error) {
	return "<html></html>", nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (p *fakePage) BodyText(ctx context.Context) (string, error) {
	return "", nil
}

func (p *fakePage) Sleep(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slept = append(p.slept, d)
	return nil
}

// fakeEscalator records escalation calls and returns a canned batch.
type fakeEscalator struct {
	mu           sync.Mutex
	calls        int
	lastReason   string
	lastHints    []string
	instructions []oracle.Instruction
	// onEscalate, when set, runs before returning so tests can mutate
	// page state as if the instructions took effect.
	onEscalate func()
}

func (f *fakeEscalator) Escalate(ctx context.Context, reason string, hints []string) []oracle.Instruction {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReason = reason
	f.lastHints = hints
	if f.onEscalate != nil {
		f.onEscalate()
	}
	return f.instructions
}
