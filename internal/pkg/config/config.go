package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig points at the research tracker REST API.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8080/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

// StorageConfig selects where the session survives restarts.
type StorageConfig struct {
	Driver    string        `env:"STORAGE_DRIVER,    default=file"`
	Path      string        `env:"STORAGE_PATH,      default=.research-tracker/session.json"`
	Secret    string        `env:"STORAGE_SECRET"`
	Namespace string        `env:"STORAGE_NAMESPACE, default=research-tracker"`
	TTL       time.Duration `env:"STORAGE_TTL,       default=0s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=research_dashboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the process cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q must be an absolute URL", c.API.BaseURL)
	}
	switch c.Storage.Driver {
	case StorageMemory, StorageRedis, StorageMongo:
	case StorageFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("STORAGE_PATH is required for the file driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.TTL < 0 {
		return fmt.Errorf("STORAGE_TTL must not be negative")
	}
	return nil
}

// IsDevelopment reports whether the process runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
