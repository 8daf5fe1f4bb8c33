package main

import (
	"fmt"

	"github.com/kbukum/applesignin/config"
	"github.com/kbukum/applesignin/observability"
	"github.com/kbukum/applesignin/relay"
)

// Config is the configuration of the applesignin command.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Apple                config.AppleConfig   `yaml:"apple" mapstructure:"apple"`
	Relay                relay.Config         `yaml:"relay" mapstructure:"relay"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = appName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Apple.ApplyDefaults()
	c.Relay.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Apple.Validate(); err != nil {
		return fmt.Errorf("apple: %w", err)
	}
	if err := c.Relay.Validate(); err != nil {
		return fmt.Errorf("relay: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}

// loadConfig reads config.yml and .env, then applies flag overrides.
func loadConfig(f *flags) (*Config, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(appName, cfg, opts...); err != nil {
		return nil, err
	}
	if f.clientID != "" {
		cfg.Apple.ClientID = f.clientID
	}
	if f.redirectURI != "" {
		cfg.Apple.RedirectURI = f.redirectURI
	}
	if f.port != 0 {
		cfg.Relay.Port = f.port
	}
	if f.noBrowser {
		cfg.Relay.OpenBrowser = false
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
