// Package config defines the runtime configuration for the ThirdLight client:
// the account URL, the API key, debug mode, and operation timeouts. It also
// provides validation and defaulting helpers plus a file loader.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config holds all settings required to initialize a ThirdLight client.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// AccountURL is the base URL of the ThirdLight site, typically of the
	// form "http://<ACCOUNT>.thirdlight.com" (required).
	AccountURL string `json:"account_url" yaml:"account_url"`
	// APIKey is the opaque credential exchanged for a session key on
	// Connect (required).
	APIKey string `json:"api_key" yaml:"api_key"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults
	// for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Timeouts controls client operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial    time.Duration // TCP connect
	Request time.Duration // ordinary API round trip
	Upload  time.Duration // upload legs carrying base64 payloads
}

// Validate verifies that AccountURL and APIKey are provided and normalizes
// Timeouts with WithDefaults. Returns an error when a required field is empty.
func (c *Config) Validate() error {
	if c.AccountURL == "" {
		return errors.New("account URL is required")
	}

	if c.APIKey == "" {
		return errors.New("API key is required")
	}

	c.Timeouts = c.Timeouts.WithDefaults()

	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:    5s
//	Request: 30s
//	Upload:  120s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.Request == 0 {
		tt.Request = 30 * time.Second
	}
	if tt.Upload == 0 {
		tt.Upload = 120 * time.Second
	}
	return tt
}

// FromFile loads a Config from a YAML file. JSON configs load too, YAML being
// a superset of JSON. The loaded config is not validated; call Validate
// before use.
func FromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := new(Config)
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
