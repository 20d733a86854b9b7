package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	APIBaseURL  string        `env:"API_BASE_URL, default=http://localhost:3000/api/v1"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	LogPretty   bool          `env:"LOG_PRETTY,   default=false"`
	ListenAddr  string        `env:"LISTEN_ADDR,  default=:8080"`
	CORSOrigins []string      `env:"CORS_ORIGINS, default=http://localhost:5173"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=0s"`
	RefreshSkew time.Duration `env:"REFRESH_SKEW, default=30s"`
	Locale      string        `env:"LOCALE,       default=es"`

	Session SessionConfig
	SQLite  SQLiteConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Backend    string `env:"SESSION_BACKEND,    default=file"`
	Dir        string `env:"SESSION_DIR"`
	Profile    string `env:"SESSION_PROFILE,    default=default"`
	Passphrase string `env:"SESSION_PASSPHRASE"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=digitallog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads an optional .env file, then the environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills the paths that depend on the user's home directory.
func (c *Config) applyDefaults() error {
	if c.Session.Dir != "" && c.SQLite.Path != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("config: resolve home dir: %w", err)
	}
	if c.Session.Dir == "" {
		c.Session.Dir = filepath.Join(home, ".digitallog")
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = filepath.Join(c.Session.Dir, "sessions.db")
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("config: API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if c.RefreshSkew < 0 {
		return fmt.Errorf("config: REFRESH_SKEW must not be negative")
	}
	return nil
}

// CookieFile is where the profile's cookie jar is persisted.
func (c *Config) CookieFile() string {
	return filepath.Join(c.Session.Dir, c.Session.Profile+".cookies")
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
