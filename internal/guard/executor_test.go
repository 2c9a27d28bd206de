// File: internal/guard/executor_test.go
package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/oracle"
)

func TestApplyEmptyBatch(t *testing.T) {
	page := newFakePage("https://example.com")
	e := NewInstructionExecutor(page, zap.NewNop())

	assert.False(t, e.Apply(context.Background(), nil))
	assert.Empty(t, page.clicks)
	assert.Empty(t, page.fills)
}

func TestApplyClickAndType(t *testing.T) {
	page := newFakePage("https://example.com")
	e := NewInstructionExecutor(page, zap.NewNop())

	batch := []oracle.Instruction{
		{Action: oracle.ActionClick, Selector: "#dismiss"},
		{Action: oracle.ActionType, Selector: "#otp", Value: "123456"},
	}
	assert.True(t, e.Apply(context.Background(), batch))
	assert.Equal(t, []string{"#dismiss"}, page.clicks)
	assert.Equal(t, "123456", page.fills["#otp"])
}

func TestApplyContinuesPastFailure(t *testing.T) {
	page := newFakePage("https://example.com")
	page.clickErr["#gone"] = errors.New("node not found")
	e := NewInstructionExecutor(page, zap.NewNop())

	batch := []oracle.Instruction{
		{Action: oracle.ActionClick, Selector: "#gone"},
		{Action: oracle.ActionClick, Selector: "#still-here"},
	}
	assert.True(t, e.Apply(context.Background(), batch))
	assert.Equal(t, []string{"#still-here"}, page.clicks)
}

func TestApplyAllFailed(t *testing.T) {
	page := newFakePage("https://example.com")
	page.clickErr["#gone"] = errors.New("node not found")
	e := NewInstructionExecutor(page, zap.NewNop())

	batch := []oracle.Instruction{{Action: oracle.ActionClick, Selector: "#gone"}}
	assert.False(t, e.Apply(context.Background(), batch))
}

func TestApplyStopsOnCancelledContext(t *testing.T) {
	page := newFakePage("https://example.com")
	e := NewInstructionExecutor(page, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch := []oracle.Instruction{{Action: oracle.ActionClick, Selector: "#x"}}
	assert.False(t, e.Apply(ctx, batch))
	assert.Empty(t, page.clicks)
}
