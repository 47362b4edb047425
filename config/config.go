// Package config defines the protection layer configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "15m" parse naturally.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure.
type Config struct {
	// Secret is the application secret fed to key derivation.
	Secret string `yaml:"secret"`
	// Fingerprint identifies the environment the derived key is bound to.
	Fingerprint string `yaml:"fingerprint"`

	// SessionTimeout is the record-freshness window of the protected store.
	SessionTimeout Duration `yaml:"session_timeout"`
	// IdleTimeout is how long a session survives without activity.
	IdleTimeout Duration `yaml:"idle_timeout"`
	// KeyBucket is the key rotation interval.
	KeyBucket Duration `yaml:"key_bucket"`

	RateLimit RateLimitSection `yaml:"rate_limit"`
	Audit     AuditSection     `yaml:"audit"`
	Storage   StorageSection   `yaml:"storage"`
	Dashboard DashboardSection `yaml:"dashboard"`
}

// RateLimitSection holds the default throttling preset.
type RateLimitSection struct {
	MaxRequests int      `yaml:"max_requests"`
	Window      Duration `yaml:"window"`
}

// AuditSection configures the security event log.
type AuditSection struct {
	Capacity          int    `yaml:"capacity"`
	WebhookURL        string `yaml:"webhook_url"`
	WebhookAuthHeader string `yaml:"webhook_auth_header"`
}

// StorageSection configures the persistent medium.
type StorageSection struct {
	// Path is the bbolt database file. Empty means in-memory.
	Path string `yaml:"path"`
}

// DashboardSection configures the operator dashboard.
type DashboardSection struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		SessionTimeout: Duration(24 * time.Hour),
		IdleTimeout:    Duration(30 * time.Minute),
		KeyBucket:      Duration(time.Hour),
		RateLimit: RateLimitSection{
			MaxRequests: 60,
			Window:      Duration(time.Minute),
		},
		Audit: AuditSection{
			Capacity: 1000,
		},
		Dashboard: DashboardSection{
			Listen: "127.0.0.1:8600",
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Verify(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Verify checks the configuration for values the layer cannot run with.
func (c Config) Verify() error {
	if c.Secret == "" {
		return fmt.Errorf("secret must be set")
	}
	if c.Fingerprint == "" {
		return fmt.Errorf("fingerprint must be set")
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("session_timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout must be positive")
	}
	if c.IdleTimeout > c.SessionTimeout {
		return fmt.Errorf("idle_timeout must not exceed session_timeout")
	}
	if c.KeyBucket <= 0 {
		return fmt.Errorf("key_bucket must be positive")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate_limit.max_requests must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	if c.Audit.Capacity <= 0 {
		return fmt.Errorf("audit.capacity must be positive")
	}
	return nil
}
