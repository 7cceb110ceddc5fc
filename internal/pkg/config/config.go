package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends for cmd/backend.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Client backends for cmd/studio.
const (
	BackendMemory = "memory"
	BackendRemote = "remote"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the backend server configuration.
type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	JWTSecret       string        `env:"JWT_SECRET"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	Storage         string        `env:"STORAGE,          default=mongo"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Google GoogleConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=studio"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// GoogleConfig enables federated sign-in when ClientID is set.
type GoogleConfig struct {
	ClientID string        `env:"GOOGLE_CLIENT_ID"`
	CertsURL string        `env:"GOOGLE_CERTS_URL, default=https://www.googleapis.com/oauth2/v3/certs"`
	Timeout  time.Duration `env:"GOOGLE_TIMEOUT,   default=5s"`
}

// Pretty reports whether logs should be human-readable.
func (c *Config) Pretty() bool { return c.Env == "development" }

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", ErrInvalidConfig)
	}
	if c.Storage != StorageMongo && c.Storage != StorageMemory {
		return fmt.Errorf("%w: STORAGE must be %q or %q, got %q", ErrInvalidConfig, StorageMongo, StorageMemory, c.Storage)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: TOKEN_TTL must be positive", ErrInvalidConfig)
	}
	return nil
}

// ClientConfig is the cmd/studio configuration.
type ClientConfig struct {
	Backend       string        `env:"STUDIO_BACKEND,        default=remote"`
	BackendURL    string        `env:"STUDIO_BACKEND_URL,    default=http://localhost:8080"`
	Timeout       time.Duration `env:"STUDIO_TIMEOUT,        default=10s"`
	FetchOrdering string        `env:"STUDIO_FETCH_ORDERING, default=arrival"`
	SessionFile   string        `env:"STUDIO_SESSION_FILE"`
	GoogleIDToken string        `env:"STUDIO_GOOGLE_ID_TOKEN"`
	LogLevel      string        `env:"STUDIO_LOG_LEVEL,      default=warn"`
	// JWTSecret signs sessions in memory mode, where no server is involved.
	JWTSecret string `env:"STUDIO_JWT_SECRET, default=studio-local"`
}

func (c *ClientConfig) validate() error {
	if c.Backend != BackendMemory && c.Backend != BackendRemote {
		return fmt.Errorf("%w: STUDIO_BACKEND must be %q or %q, got %q", ErrInvalidConfig, BackendMemory, BackendRemote, c.Backend)
	}
	if c.Backend == BackendRemote && c.BackendURL == "" {
		return fmt.Errorf("%w: STUDIO_BACKEND_URL is required for the remote backend", ErrInvalidConfig)
	}
	return nil
}

// Load reads the backend configuration from environment variables using
// go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith is Load over an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient reads the CLI configuration.
func LoadClient(ctx context.Context, l envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
