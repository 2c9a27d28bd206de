// File: internal/guard/classifier_test.go
package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassifyOnWorkflowClean(t *testing.T) {
	allow := BuildAllowlist("https://tickets.example.com/event/1")
	page := newFakePage("https://tickets.example.com/event/1")
	c := NewClassifier(allow, page, zap.NewNop())

	status, err := c.Classify(context.Background())
	require.NoError(t, err)
	assert.True(t, status.OnWorkflow)
	assert.False(t, status.Challenged)
	assert.False(t, status.Divergent())
	assert.Empty(t, status.Reason())
}

func TestClassifyOffWorkflow(t *testing.T) {
	allow := BuildAllowlist("https://tickets.example.com/event/1")
	page := newFakePage("https://ads.partner.test/interstitial")
	c := NewClassifier(allow, page, zap.NewNop())

	status, err := c.Classify(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Divergent())
	assert.Equal(t, ReasonOffWorkflow, status.Reason())
}

func TestClassifyChallengeVisible(t *testing.T) {
	allow := BuildAllowlist("https://tickets.example.com/event/1")
	page := newFakePage("https://tickets.example.com/event/1")
	page.visible[`div.g-recaptcha`] = true
	c := NewClassifier(allow, page, zap.NewNop())

	status, err := c.Classify(context.Background())
	require.NoError(t, err)
	assert.True(t, status.OnWorkflow)
	assert.True(t, status.Challenged)
	assert.True(t, status.Divergent())
	assert.Equal(t, ReasonChallenge, status.Reason())
}

func TestClassifyBothConditions(t *testing.T) {
	allow := BuildAllowlist("https://tickets.example.com/event/1")
	page := newFakePage("https://cdn.challenge.test/verify")
	page.visible[`#challenge-stage`] = true
	c := NewClassifier(allow, page, zap.NewNop())

	status, err := c.Classify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonOffWorkflow+"; "+ReasonChallenge, status.Reason())
}

func TestClassifyURLFailure(t *testing.T) {
	allow := BuildAllowlist("https://tickets.example.com/event/1")
	page := newFakePage("")
	page.urlErr = errors.New("target crashed")
	c := NewClassifier(allow, page, zap.NewNop())

	_, err := c.Classify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot classify page state")
}
