// Package config loads client configuration and carries the session
// identity injected into the core.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config is everything the CLI needs to reach the authority.
type Config struct {
	// BaseURL is the authority's root, e.g. "http://localhost:8080".
	BaseURL string `mapstructure:"base_url"`
	// Token is the bearer token for the current session. Issued elsewhere;
	// the client only carries it.
	Token string `mapstructure:"token"`
	// UserID is the current user's id as known to the authority.
	UserID string `mapstructure:"user_id"`
	// Format is the default output format (text|json|yaml).
	Format string `mapstructure:"format"`
	// SearchLimit caps friend-search results. Presentation parameter.
	SearchLimit int `mapstructure:"search_limit"`
}

// Load reads configuration from the given file path (e.g.
// "~/.splitwise.yaml"). If path is empty it looks for ".splitwise.yaml" in
// the home directory and current directory. Environment variables with the
// SPLITWISE_ prefix override file values, e.g. SPLITWISE_TOKEN.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("format", "text")
	v.SetDefault("search_limit", 6)

	if path == "" {
		v.SetConfigName(".splitwise")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("SPLITWISE")
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about, so bind the env-only ones
	// explicitly.
	for _, key := range []string{"base_url", "token", "user_id", "format", "search_limit"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No file is fine when env vars carry everything.
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate checks that the config can actually open a session.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("base_url is required (config file or SPLITWISE_BASE_URL)")
	case c.Token == "":
		return errors.New("token is required (config file or SPLITWISE_TOKEN)")
	case c.UserID == "":
		return errors.New("user_id is required (config file or SPLITWISE_USER_ID)")
	}
	return nil
}
