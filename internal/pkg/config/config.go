package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the dashboard gateway configuration.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig points at the audit REST backend.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=https://sistema-auditoria-backend.onrender.com/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type SessionConfig struct {
	// Store selects the session store backend: "redis" or "memory".
	Store        string        `env:"SESSION_STORE,         default=redis"`
	TTL          time.Duration `env:"SESSION_TTL,           default=24h"`
	CookieName   string        `env:"SESSION_COOKIE,        default=dain_client"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	BootWait     time.Duration `env:"SESSION_BOOT_WAIT,     default=3s"`
	IdleTTL      time.Duration `env:"SESSION_IDLE_TTL,      default=30m"`
	JanitorSpec  string        `env:"SESSION_JANITOR_CRON,  default=0 */5 * * * *"`
}

type MongoConfig struct {
	// An empty URI disables the session audit trail.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=dain_audit"`
	Workers  int    `env:"AUDIT_TRAIL_WORKERS, default=4"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// DevAPIConfig configures the development authentication backend.
type DevAPIConfig struct {
	Port      string        `env:"DEVAPI_PORT,      default=8081"`
	BasePath  string        `env:"DEVAPI_BASE_PATH, default=/api"`
	JWTSecret string        `env:"JWT_SECRET,       default=dev-secret"`
	TokenTTL  time.Duration `env:"JWT_TTL,          default=8h"`
	LogLevel  string        `env:"LOG_LEVEL,        default=debug"`
	Seed      bool          `env:"DEVAPI_SEED,      default=true"`

	Mongo MongoConfig
}

// Load reads the gateway configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Session.Store != "redis" && cfg.Session.Store != "memory" {
		return nil, fmt.Errorf("config: SESSION_STORE must be redis or memory, got %q", cfg.Session.Store)
	}
	return &cfg, nil
}

// LoadDevAPI reads the development backend configuration.
func LoadDevAPI(ctx context.Context) (*DevAPIConfig, error) {
	var cfg DevAPIConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for process start-up: it panics on error.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
