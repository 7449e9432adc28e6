package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/playgate/playgate/internal/domain"
)

// Config holds the application configuration.
type Config struct {
	Server          ServerConfig      `mapstructure:"server"`
	Upstream        UpstreamConfig    `mapstructure:"upstream" validate:"required"`
	Channels        ChannelsConfig    `mapstructure:"channels"`
	EligibilityFile string            `mapstructure:"eligibility_file"`
	Registry        RegistryConfig    `mapstructure:"registry"`
	RateLimiter     RateLimiterConfig `mapstructure:"rate_limiter"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port int    `mapstructure:"port" validate:"required,gte=1024,lte=65535"`
	Mode string `mapstructure:"mode" validate:"required,oneof=development production"`
}

// UpstreamConfig holds the upstream endpoints shared by all channels.
type UpstreamConfig struct {
	AuthURL    string        `mapstructure:"auth_url" validate:"omitempty,url"`
	BaseURL    string        `mapstructure:"base_url" validate:"omitempty,url"`
	DeviceName string        `mapstructure:"device_name" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// ChannelCredentials is one channel's upstream account identity. A channel
// may be left unconfigured as long as it is never accessed; the registry
// turns a missing configuration into a fatal error on first use.
type ChannelCredentials struct {
	Email    string `mapstructure:"email"`
	AASToken string `mapstructure:"aas_token"`
}

// Configured reports whether both credential parts are present.
func (c ChannelCredentials) Configured() bool {
	return c.Email != "" && c.AASToken != ""
}

// ChannelsConfig holds per-channel credentials.
type ChannelsConfig struct {
	Stable ChannelCredentials `mapstructure:"stable"`
	Beta   ChannelCredentials `mapstructure:"beta"`
	Alpha  ChannelCredentials `mapstructure:"alpha"`
}

// For returns the credentials for ch.
func (c ChannelsConfig) For(ch domain.Channel) ChannelCredentials {
	switch ch {
	case domain.ChannelStable:
		return c.Stable
	case domain.ChannelBeta:
		return c.Beta
	case domain.ChannelAlpha:
		return c.Alpha
	default:
		return ChannelCredentials{}
	}
}

// RegistryConfig tunes the session registry.
type RegistryConfig struct {
	// InitBackoff is how long a failed channel initialization is replayed
	// to callers before the next login attempt. Zero retries on every call.
	InitBackoff time.Duration `mapstructure:"init_backoff"`
}

// RateLimiterConfig holds the per-client HTTP rate limiter configuration.
type RateLimiterConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate" validate:"required_if=Enabled true"`
	Burst   int     `mapstructure:"burst" validate:"required_if=Enabled true"`
}

// Load loads the configuration from a file and environment variables.
func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("config")
		vip.AddConfigPath("./configs")
		vip.AddConfigPath(".")
	}

	vip.SetConfigType("yaml")
	vip.AutomaticEnv()
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	vip.SetDefault("server.port", 8080)
	vip.SetDefault("server.mode", "development")
	vip.SetDefault("upstream.timeout", "30s")
	vip.SetDefault("upstream.max_retries", 2)
	vip.SetDefault("registry.init_backoff", "30s")
	vip.SetDefault("rate_limiter.enabled", false)

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
