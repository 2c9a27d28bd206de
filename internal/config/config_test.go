// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Run.TargetURL = "https://tickets.example.com/event/1"
	cfg.Run.Username = "alice"
	cfg.Run.Password = "hunter2"
	return cfg
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.Oracle.Model)
	assert.Equal(t, 45*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Oracle.MinInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Guard.SettleDelayOrDefault())
}

func TestNonNumericSettleDelayFallsBack(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("run.target_url", "https://tickets.example.com/event/1")
	v.Set("run.username", "alice")
	v.Set("run.password", "hunter2")
	v.Set("guard.settle_delay", "whenever")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err, "a junk settle delay must not fail the unmarshal")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500*time.Millisecond, cfg.Guard.SettleDelayOrDefault())
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRequiresTarget(t *testing.T) {
	cfg := validConfig()
	cfg.Run.TargetURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_url")
}

func TestValidateRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Run.Password = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username and run.password")
}

func TestValidateRejectsMalformedGate(t *testing.T) {
	cfg := validConfig()
	cfg.Run.NotBefore = "tomorrow at noon"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_before")
}

func TestValidateRejectsNonPositiveTimeouts(t *testing.T) {
	cfg := validConfig()
	cfg.Browser.NavTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Oracle.Timeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestNotBeforeTime(t *testing.T) {
	r := RunConfig{}
	got, err := r.NotBeforeTime()
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "empty gate is the zero time")

	r.NotBefore = "2026-09-01T10:00:00+09:00"
	got, err = r.NotBeforeTime()
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.September, got.Month())
}

func TestSettleDelayOrDefault(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 500 * time.Millisecond},
		{"2s", 2 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"750", 750 * time.Millisecond},
		{"-1s", 500 * time.Millisecond},
		{"0", 500 * time.Millisecond},
		{"whenever", 500 * time.Millisecond},
	}
	for _, tc := range cases {
		got := GuardConfig{SettleDelay: tc.raw}.SettleDelayOrDefault()
		assert.Equal(t, tc.want, got, "raw: %q", tc.raw)
	}
}

func TestNewConfigFromViperReadsSecretsFromEnv(t *testing.T) {
	t.Setenv("USHER_RUN_PASSWORD", "s3cret")
	t.Setenv("USHER_ORACLE_API_KEY", "key-123")

	v := viper.New()
	SetDefaults(v)
	v.Set("run.target_url", "https://tickets.example.com/event/1")
	v.Set("run.username", "alice")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Run.Password)
	assert.Equal(t, "key-123", cfg.Oracle.APIKey)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViperGeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-456")

	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "gem-456", cfg.Oracle.APIKey)
}
