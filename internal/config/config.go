// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration for a single run.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Oracle  OracleConfig  `mapstructure:"oracle" yaml:"oracle"`
	Guard   GuardConfig   `mapstructure:"guard" yaml:"guard"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// RunConfig identifies the target workflow and the credentials used for it.
// The password never appears in the YAML dump of a config.
type RunConfig struct {
	TargetURL string `mapstructure:"target_url" yaml:"target_url"`
	Username  string `mapstructure:"username" yaml:"username"`
	Password  string `mapstructure:"password" yaml:"-"`
	// NotBefore is an optional RFC3339 gate. A run started before this
	// instant exits with the gate-not-reached status without touching the
	// browser, so an external scheduler can simply retry later.
	NotBefore string `mapstructure:"not_before" yaml:"not_before"`
}

// BrowserConfig holds settings for the headless browser session.
type BrowserConfig struct {
	Headless   bool          `mapstructure:"headless" yaml:"headless"`
	NavTimeout time.Duration `mapstructure:"nav_timeout" yaml:"nav_timeout"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// OracleConfig configures the external reasoning service used for
// corrective escalations. An empty APIKey disables escalation entirely;
// that is a valid configuration, not an error.
type OracleConfig struct {
	APIKey      string        `mapstructure:"api_key" yaml:"-"`
	Model       string        `mapstructure:"model" yaml:"model"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval" yaml:"min_interval"`
}

// GuardConfig tunes the workflow guard. SettleDelay is kept as a raw
// string so a malformed value degrades to the default instead of failing
// the whole config unmarshal.
type GuardConfig struct {
	SettleDelay string `mapstructure:"settle_delay" yaml:"settle_delay"`
}

const defaultSettleDelay = 500 * time.Millisecond

// SettleDelayOrDefault parses the post-instruction settle pause
// leniently: a Go duration string is taken as-is, a bare number is read
// as milliseconds, and anything unset, non-positive or non-numeric falls
// back to 500ms rather than disabling the pause.
func (g GuardConfig) SettleDelayOrDefault() time.Duration {
	raw := strings.TrimSpace(g.SettleDelay)
	if raw == "" {
		return defaultSettleDelay
	}
	if d, err := time.ParseDuration(raw); err == nil {
		if d <= 0 {
			return defaultSettleDelay
		}
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= 0 {
			return defaultSettleDelay
		}
		return time.Duration(n) * time.Millisecond
	}
	return defaultSettleDelay
}

// NotBeforeTime parses the optional start gate. A missing gate returns
// the zero time and no error; a malformed gate is a configuration error.
func (r RunConfig) NotBeforeTime() (time.Time, error) {
	if r.NotBefore == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, r.NotBefore)
	if err != nil {
		return time.Time{}, fmt.Errorf("run.not_before is not RFC3339: %w", err)
	}
	return t, nil
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "usher")
	v.SetDefault("logger.log_file", "usher.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.nav_timeout", "60s")

	// -- Oracle --
	v.SetDefault("oracle.model", "gemini-2.5-flash")
	v.SetDefault("oracle.timeout", "45s")
	v.SetDefault("oracle.min_interval", "2s")

	// -- Guard --
	v.SetDefault("guard.settle_delay", "500ms")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Unreachable with defaults alone, but fail loudly if it happens.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind environment variables for the secrets so they never need to
	// land in a config file.
	v.BindEnv("run.password", "USHER_RUN_PASSWORD")
	v.BindEnv("oracle.api_key", "USHER_ORACLE_API_KEY", "GEMINI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// Everything here fails before any browser work starts.
func (c *Config) Validate() error {
	if c.Run.TargetURL == "" {
		return fmt.Errorf("run.target_url is a required configuration field")
	}
	if _, err := url.Parse(c.Run.TargetURL); err != nil {
		return fmt.Errorf("run.target_url is not a valid URL: %w", err)
	}
	if c.Run.Username == "" || c.Run.Password == "" {
		return fmt.Errorf("run.username and run.password are required")
	}
	if _, err := c.Run.NotBeforeTime(); err != nil {
		return err
	}
	if c.Browser.NavTimeout <= 0 {
		return fmt.Errorf("browser.nav_timeout must be a positive duration")
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle.timeout must be a positive duration")
	}
	return nil
}
