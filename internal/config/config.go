// Package config loads process settings once at startup.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds the bot settings. Values are read once and never change.
type Config struct {
	BotToken        string `toml:"bot_token"         env:"SLACK_BOT_TOKEN"`
	SigningSecret   string `toml:"signing_secret"    env:"SLACK_SIGNING_SECRET"`
	HouseManagerUID string `toml:"house_manager_uid" env:"HOUSE_MANAGER_UID"`
	DeveloperUID    string `toml:"developer_uid"     env:"DEVELOPER_UID"`
	LogLevel        string `toml:"log_level"         env:"LOGLEVEL"`
	Port            string `toml:"port"              env:"PORT"`
	SQLitePath      string `toml:"sqlite_path"       env:"SQLITE_PATH"`
	Command         string `toml:"command"           env:"SLACK_COMMAND"`
	// APIURL overrides the Slack Web API base URL, e.g. for a local mock.
	APIURL string `toml:"api_url" env:"SLACK_API_URL"`
}

// Default returns the settings used when neither file nor environment set a value.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		Port:       "3000",
		SQLitePath: "./jobdata.db",
		Command:    "/configurejobs",
	}
}

// Load applies defaults, then the TOML file at path (if non-empty), then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	if c.SigningSecret == "" {
		errs = append(errs, errors.New("SLACK_SIGNING_SECRET is required"))
	}
	if c.HouseManagerUID == "" && c.DeveloperUID == "" {
		errs = append(errs, errors.New("HOUSE_MANAGER_UID or DEVELOPER_UID is required"))
	}
	return errors.Join(errs...)
}

// AllowedUsers returns the allow-listed Slack user ids, skipping unset ones.
func (c *Config) AllowedUsers() []string {
	var out []string
	for _, id := range []string{c.HouseManagerUID, c.DeveloperUID} {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
