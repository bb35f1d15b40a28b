package apptime

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

type (
	// Config holds the decoded time base configuration for an [Engine].
	// Export it to embed in your own app config structs for JSON
	// unmarshaling, then call [Config.Apply] on a constructed engine.
	Config struct {
		// Stretching configures the initial time stretching ratio.
		// Optional. Example: {"numerator": 1, "denominator": 2}.
		Stretching *StretchingConfig `json:"stretching,omitempty" yaml:"stretching,omitempty"`
		// NTP configures an NTP-driven custom clock.
		// Optional. Example: {"server": "time.google.com", "sync_interval": "5m"}.
		NTP *NTPConfig `json:"ntp,omitempty" yaml:"ntp,omitempty"`
	}

	// StretchingConfig holds a stretching ratio. Both values must lie in
	// [1, MaxStretchFactor].
	StretchingConfig struct {
		// Numerator of the rate ratio. Required.
		Numerator *uint `json:"numerator,omitempty" yaml:"numerator,omitempty"`
		// Denominator of the rate ratio. Required.
		Denominator *uint `json:"denominator,omitempty" yaml:"denominator,omitempty"`
	}

	// NTPConfig holds the configuration of an [NTPClock].
	NTPConfig struct {
		// Server is the NTP server host. Required. Example: "time.google.com".
		Server *string `json:"server,omitempty" yaml:"server,omitempty"`
		// SyncInterval is the period between NTP queries.
		// Optional. Parsed via time.ParseDuration. Example: "5m".
		SyncInterval *string `json:"sync_interval,omitempty" yaml:"sync_interval,omitempty"`
		// PushInterval is the period between time pushes into the engine.
		// Optional. Parsed via time.ParseDuration. Example: "100ms".
		PushInterval *string `json:"push_interval,omitempty" yaml:"push_interval,omitempty"`
	}
)

// LoadConfig reads a JSON time base configuration file. All values are
// validated eagerly so errors surface at load time, before the configuration
// is applied to an engine.
//
// Duration values (sync_interval, push_interval) are parsed using
// [time.ParseDuration].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("apptime: read config: %w", err)
	}

	var cfg Config
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("apptime: parse config: %w", err)
	}

	if err = cfg.validate(); err != nil {
		return nil, fmt.Errorf("apptime: config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if s := c.Stretching; s != nil {
		if s.Numerator == nil || s.Denominator == nil {
			return fmt.Errorf("stretching: numerator and denominator are required")
		}

		if !validStretchFactor(*s.Numerator) || !validStretchFactor(*s.Denominator) {
			return fmt.Errorf("stretching: %w: %d/%d",
				ErrInvalidStretching, *s.Numerator, *s.Denominator)
		}
	}

	if n := c.NTP; n != nil {
		if n.Server == nil || *n.Server == "" {
			return fmt.Errorf("ntp: server is required")
		}

		if n.SyncInterval != nil {
			if _, err := time.ParseDuration(*n.SyncInterval); err != nil {
				return fmt.Errorf("ntp.sync_interval: %w", err)
			}
		}

		if n.PushInterval != nil {
			if _, err := time.ParseDuration(*n.PushInterval); err != nil {
				return fmt.Errorf("ntp.push_interval: %w", err)
			}
		}
	}

	return nil
}

// Apply configures e from c: the stretching section sets the initial ratio.
// The NTP section is not applied here because it starts a background
// goroutine; build the clock with [Config.NTPClock] and run it explicitly.
func (c *Config) Apply(e *Engine) error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("apptime: config: %w", err)
	}

	if s := c.Stretching; s != nil {
		if err := e.SetTimeStretching(*s.Numerator, *s.Denominator); err != nil {
			return err
		}
	}

	return nil
}

// NTPClock builds the configured [NTPClock], or returns nil if the
// configuration has no NTP section. The clock is not installed and not
// started; see [Engine.SetTimeSource] and [NTPClock.Run].
func (c *Config) NTPClock() (*NTPClock, error) {
	if c.NTP == nil {
		return nil, nil
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("apptime: config: %w", err)
	}

	var opts []NTPOption

	if c.NTP.SyncInterval != nil {
		d, _ := time.ParseDuration(*c.NTP.SyncInterval)
		opts = append(opts, NTPSyncInterval(d))
	}

	if c.NTP.PushInterval != nil {
		d, _ := time.ParseDuration(*c.NTP.PushInterval)
		opts = append(opts, NTPPushInterval(d))
	}

	return NewNTPClock(*c.NTP.Server, opts...), nil
}
