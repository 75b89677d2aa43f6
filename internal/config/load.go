package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	EnvPrefix     = "TASKS"
	ConfigFileEnv = "TASKS_CONFIG_FILE"
)

var ErrDevelopmentSecret = errors.New("auth.jwt_secret must be set in production")

// Load reads configuration from defaults, an optional config file named by
// TASKS_CONFIG_FILE and TASKS_* environment variables, in increasing order of
// precedence.
func Load() (*AppConfig, error) {
	defaults := GetDefaultConfig()

	v := viper.New()
	setDefaults(v, defaults)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Platform conventions.
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, err
	}

	if file := os.Getenv(ConfigFileEnv); file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &AppConfig{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.RateLimitConfigs = defaults.RateLimitConfigs

	if os.Getenv("GIN_MODE") == "release" && !v.InConfig("environment") && os.Getenv(EnvPrefix+"_ENVIRONMENT") == "" {
		cfg.Environment = EnvironmentProduction
		cfg.EnforceHTTPS = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.IsProduction() && c.Auth.JWTSecret == DevelopmentJWTSecret {
		return ErrDevelopmentSecret
	}

	return nil
}

func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("environment", d.Environment)
	v.SetDefault("enforce_https", d.EnforceHTTPS)
	v.SetDefault("rate_limit_enabled", d.RateLimitEnabled)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.cors_allowed_origins", d.Server.CORSAllowedOrigins)
	v.SetDefault("server.trusted_proxies", d.Server.TrustedProxies)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.log_queries", d.Database.LogQueries)
	v.SetDefault("database.max_conns", d.Database.MaxConns)

	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("auth.issuer", d.Auth.Issuer)
	v.SetDefault("auth.bcrypt_cost", d.Auth.BcryptCost)

	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("telemetry.service_version", d.Telemetry.ServiceVersion)
	v.SetDefault("telemetry.otlp_endpoint", d.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.loki_url", d.Telemetry.LokiURL)
	v.SetDefault("telemetry.metrics_port", d.Telemetry.MetricsPort)
	v.SetDefault("telemetry.log_level", d.Telemetry.LogLevel)

	v.SetDefault("rate_limit.store", d.RateLimit.Store)
	v.SetDefault("rate_limit.redis_url", d.RateLimit.RedisURL)
	v.SetDefault("rate_limit.requests", d.RateLimit.Requests)
	v.SetDefault("rate_limit.window", d.RateLimit.Window)
}
