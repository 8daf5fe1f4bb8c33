package config

import (
	"fmt"

	"github.com/kbukum/applesignin/logger"
	"github.com/kbukum/applesignin/util"
	"github.com/kbukum/applesignin/validation"
)

// ServiceConfig contains the fields every application embedding the
// library needs. Applications extend it by embedding it in their own
// config structs.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// AppleConfig is the library-level configuration shared by every sign-in
// attempt of one client: the Services ID and the registered redirect URI.
type AppleConfig struct {
	ClientID    string `yaml:"client_id" mapstructure:"client_id" json:"client_id" validate:"required"`
	RedirectURI string `yaml:"redirect_uri" mapstructure:"redirect_uri" json:"redirect_uri" validate:"required,url"`
}

// ApplyDefaults strips surrounding whitespace and quotes from both values.
func (c *AppleConfig) ApplyDefaults() {
	c.ClientID = util.SanitizeEnvValue(c.ClientID)
	c.RedirectURI = util.SanitizeEnvValue(c.RedirectURI)
}

// Validate checks both values are present and the redirect URI is absolute.
func (c *AppleConfig) Validate() error {
	return validation.Validate(c)
}
