// File: internal/guard/classifier.go
package guard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
)

// Reason strings surfaced to the escalation prompt. The two divergence
// conditions are independent and reported distinctly.
const (
	ReasonOffWorkflow = "unexpected workflow URL"
	ReasonChallenge   = "captcha detected"
)

// challengeSelectors is the fixed catalog of anti-automation challenge
// indicators. Each is given a short bounded visibility wait; absence of
// all of them within the budget means "no challenge", not "unknown".
var challengeSelectors = []string{
	`iframe[src*="recaptcha"]`,
	`iframe[src*="hcaptcha"]`,
	`iframe[title*="challenge"]`,
	`div.g-recaptcha`,
	`div.h-captcha`,
	`#challenge-stage`,
	`#cf-challenge-running`,
	`[data-sitekey]`,
	`#captcha`,
}

// challengeWait bounds the visibility poll per catalog pattern.
const challengeWait = 1 * time.Second

// PageStatus is the classifier's verdict for one point in time. It is
// never cached; the underlying page mutates continuously.
type PageStatus struct {
	URL        string
	OnWorkflow bool
	Challenged bool
}

// Divergent reports whether the page has left the expected workflow.
func (s PageStatus) Divergent() bool {
	return !s.OnWorkflow || s.Challenged
}

// Reason returns the escalation reason string for a divergent status.
func (s PageStatus) Reason() string {
	switch {
	case !s.OnWorkflow && s.Challenged:
		return ReasonOffWorkflow + "; " + ReasonChallenge
	case s.Challenged:
		return ReasonChallenge
	case !s.OnWorkflow:
		return ReasonOffWorkflow
	default:
		return ""
	}
}

// Classifier evaluates the two workflow predicates on demand.
type Classifier struct {
	allow  *Allowlist
	page   browser.Page
	logger *zap.Logger
}

// NewClassifier builds a classifier over the run's immutable allowlist.
func NewClassifier(allow *Allowlist, page browser.Page, logger *zap.Logger) *Classifier {
	return &Classifier{
		allow:  allow,
		page:   page,
		logger: logger.Named("classifier"),
	}
}

// Classify captures the current URL and evaluates both predicates. Only
// a failure to read the URL is an error; everything else is a verdict.
func (c *Classifier) Classify(ctx context.Context) (PageStatus, error) {
	current, err := c.page.CurrentURL(ctx)
	if err != nil {
		return PageStatus{}, fmt.Errorf("cannot classify page state: %w", err)
	}

	status := PageStatus{
		URL:        current,
		OnWorkflow: c.allow.Matches(current),
		Challenged: c.challenged(ctx),
	}
	c.logger.Debug("Classified page state",
		zap.String("url", current),
		zap.Bool("on_workflow", status.OnWorkflow),
		zap.Bool("challenged", status.Challenged))
	return status, nil
}

// challenged probes the challenge catalog. A pattern that never becomes
// visible within its budget simply doesn't count; probe errors are not
// divergence evidence.
func (c *Classifier) challenged(ctx context.Context) bool {
	for _, sel := range challengeSelectors {
		if ctx.Err() != nil {
			return false
		}
		if err := c.page.WaitVisible(ctx, sel, challengeWait); err == nil {
			c.logger.Warn("Challenge indicator visible", zap.String("selector", sel))
			return true
		}
	}
	return false
}
