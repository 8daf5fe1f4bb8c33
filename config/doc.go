// Package config loads sign-in configuration from files and the
// environment.
//
// It uses Viper to read a YAML config file and godotenv to load .env
// files, then binds every environment variable to the matching nested
// key so APPLE_CLIENT_ID overrides apple.client_id.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Apple config.AppleConfig `yaml:"apple" mapstructure:"apple"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("applesignin", &cfg)
package config
