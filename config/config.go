// Package config provides configuration handling for the dashboard backend.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config contains all the runtime configuration values.
type Config struct {
	// ListenAddr is the address the relay HTTP server binds to.
	ListenAddr string `mapstructure:"listen_addr" validate:"required"`

	// DiscordAPIBase is the base URL of the Discord REST API.
	DiscordAPIBase string `mapstructure:"discord_api_base" validate:"required,url"`

	// HTTPTimeout bounds every outbound call to the Discord API.
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"required"`

	// MemberFetchLimit is the batch size used when listing guild members.
	MemberFetchLimit int `mapstructure:"member_fetch_limit" validate:"min=1,max=1000"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

const (
	DefaultListenAddr       = "0.0.0.0:8080"
	DefaultDiscordAPIBase   = "https://discord.com/api/v10"
	DefaultHTTPTimeout      = 15 * time.Second
	DefaultMemberFetchLimit = 100
	DefaultLogLevel         = "info"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file (optional)
// 3. DASH_* environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("discord_api_base", DefaultDiscordAPIBase)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("member_fetch_limit", DefaultMemberFetchLimit)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional, defaults and env vars are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
