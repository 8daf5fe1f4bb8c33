package relay

import (
	"time"

	"github.com/kbukum/applesignin/server"
	"github.com/kbukum/applesignin/validation"
)

// Config configures the loopback relay.
type Config struct {
	server.Config   `yaml:",inline" mapstructure:",squash"`
	CallbackPath    string        `yaml:"callback_path" mapstructure:"callback_path" validate:"required,startswith=/"`
	OpenBrowser     bool          `yaml:"open_browser" mapstructure:"open_browser"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"min=0"`

	// CaptureRate and CaptureBurst throttle the POST endpoints that receive
	// the redirect (requests per second, bucket size).
	CaptureRate  float64 `yaml:"capture_rate" mapstructure:"capture_rate" validate:"min=0"`
	CaptureBurst int     `yaml:"capture_burst" mapstructure:"capture_burst" validate:"min=0"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults()
	if c.CallbackPath == "" {
		c.CallbackPath = "/callback"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.CaptureRate == 0 {
		c.CaptureRate = 5
	}
	if c.CaptureBurst == 0 {
		c.CaptureBurst = 10
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}
