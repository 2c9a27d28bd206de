// File: internal/strategy/strategy_test.go
package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectKnownSites(t *testing.T) {
	cases := []struct {
		target string
		want   string
	}{
		{"https://tickets.interpark.com/goods/24001234", "interpark"},
		{"https://www.ticketmaster.com/event/0A005E8", "ticketmaster"},
		{"https://WWW.INTERPARK.COM/login", "interpark"},
	}
	for _, tc := range cases {
		b := Select(tc.target)
		assert.Equal(t, tc.want, b.Name, "target: %s", tc.target)
	}
}

func TestSelectUnknownFallsBackToGeneric(t *testing.T) {
	b := Select("https://tickets.smalltown-theatre.example/event/42")
	assert.Equal(t, "generic", b.Name)
}

func TestSelectEmptyTarget(t *testing.T) {
	assert.Equal(t, "generic", Select("").Name)
}

func TestBundlesAreComplete(t *testing.T) {
	targets := []string{
		"https://tickets.interpark.com/x",
		"https://www.ticketmaster.com/x",
		"https://unknown.example/x",
	}
	for _, target := range targets {
		b := Select(target)
		assert.NotEmpty(t, b.Login.UserFields, "%s: login user fields", b.Name)
		assert.NotEmpty(t, b.Login.PasswordField, "%s: login password fields", b.Name)
		assert.NotEmpty(t, b.Login.SubmitButtons, "%s: login submit buttons", b.Name)
		assert.NotEmpty(t, b.Seat.Primary, "%s: seat primary", b.Name)
		assert.NotEmpty(t, b.Seat.Fallback, "%s: seat fallback", b.Name)
		assert.NotEmpty(t, b.Checkout.Primary, "%s: checkout primary", b.Name)
		assert.NotEmpty(t, b.ConfirmPhrases, "%s: confirm phrases", b.Name)
	}
}
