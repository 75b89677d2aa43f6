package config

import "time"

const (
	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
	EnvironmentProduction  = "production"

	// DevelopmentJWTSecret is only accepted outside production.
	DevelopmentJWTSecret = "development-only-secret-change-me-please"
)

type AppConfig struct {
	Environment      string `mapstructure:"environment" validate:"required,oneof=development test production"`
	EnforceHTTPS     bool   `mapstructure:"enforce_https"`
	RateLimitEnabled bool   `mapstructure:"rate_limit_enabled"`

	// RateLimitConfigs is keyed by "METHOD /route/pattern".
	RateLimitConfigs map[string]RateLimitConfig `mapstructure:"-"`

	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	RateLimit RateLimitStore  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	// TrustedProxies may set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	Path       string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	URL        string `mapstructure:"url" validate:"required_if=Driver postgres"`
	LogQueries bool   `mapstructure:"log_queries"`
	MaxConns   int32  `mapstructure:"max_conns" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenTTL   time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	Issuer     string        `mapstructure:"issuer"`
	BcryptCost int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

type TelemetryConfig struct {
	ServiceName    string `mapstructure:"service_name" validate:"required"`
	ServiceVersion string `mapstructure:"service_version"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	LokiURL        string `mapstructure:"loki_url" validate:"omitempty,url"`
	MetricsPort    int    `mapstructure:"metrics_port" validate:"gte=0,lt=65536"`
	LogLevel       string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// RateLimitStore selects where counters live and the rule for routes
// without an entry in AppConfig.RateLimitConfigs.
type RateLimitStore struct {
	Store    string        `mapstructure:"store" validate:"required,oneof=memory redis"`
	RedisURL string        `mapstructure:"redis_url" validate:"required_if=Store redis"`
	Requests int           `mapstructure:"requests" validate:"gt=0"`
	Window   time.Duration `mapstructure:"window" validate:"gt=0"`
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:      EnvironmentDevelopment,
		EnforceHTTPS:     false,
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /auth/signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /auth/signin": {
				Requests: 10,
				Window:   time.Minute,
			},
			"GET /tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /tasks": {
				Requests: 20,
				Window:   time.Minute,
			},
			"PATCH /tasks/:id/status": {
				Requests: 20,
				Window:   time.Minute,
			},
			"DELETE /tasks/:id": {
				Requests: 10,
				Window:   time.Minute,
			},
		},
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "database.db",
			MaxConns: 10,
		},
		Auth: AuthConfig{
			JWTSecret:  DevelopmentJWTSecret,
			TokenTTL:   time.Hour,
			Issuer:     "taskmanager",
			BcryptCost: 10,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "taskmanager",
			ServiceVersion: "1.0.0",
			MetricsPort:    9091,
			LogLevel:       "info",
		},
		RateLimit: RateLimitStore{
			Store:    "memory",
			Requests: 60,
			Window:   time.Minute,
		},
	}
}

// RuleFor returns the limit for a "METHOD /route" key, falling back to the
// store-wide default.
func (c *AppConfig) RuleFor(route string) RateLimitConfig {
	if rule, ok := c.RateLimitConfigs[route]; ok {
		return rule
	}

	return RateLimitConfig{Requests: c.RateLimit.Requests, Window: c.RateLimit.Window}
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}
