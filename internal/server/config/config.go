// Package config builds the server configuration from defaults, environment
// variables and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverBolt     = "bolt"
	DriverMemory   = "memory"
)

// MinSecretKeyLen is the shortest accepted SECRET_KEY, in bytes
const MinSecretKeyLen = 32

// MaxAccessTokenExpireMinutes caps the token lifetime at one year
const MaxAccessTokenExpireMinutes = 365 * 24 * 60

// placeholderSecret shipped in old sample .env files; never accept it
const placeholderSecret = "your-secret-key-change-this-in-production"

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for the civicdesk server
type Config struct {
	Addr          string `env:"SERVER_ADDRESS" envDefault:":8080"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	// DatabaseDSN is a file path for sqlite and a connection string for postgres
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"civicdesk.db"`
	BoltPath    string `env:"BOLT_PATH" envDefault:"civicdesk.bolt"`
	MongoURL    string `env:"MONGO_URL" envDefault:"mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB" envDefault:"civicdesk"`

	SecretKey                string `env:"SECRET_KEY"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"10080"`

	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"12"`

	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	ShowVersion bool `env:"-"`
}

// Load reads environ (nil means the process environment) and then args
// (without the program name). The result is not validated.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("civicdesk-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.Addr, "a", c.Addr, "HTTP listen address")
	fs.StringVar(&c.StorageDriver, "storage", c.StorageDriver, "storage driver: sqlite|postgres|mongo|bolt|memory")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "sqlite file path or postgres DSN")
	fs.StringVar(&c.BoltPath, "bolt", c.BoltPath, "bbolt database file")
	fs.StringVar(&c.MongoURL, "mongo", c.MongoURL, "MongoDB connection URI")
	fs.StringVar(&c.PasswordHasher, "hasher", c.PasswordHasher, "password hasher: bcrypt|argon2id")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug|info|warn|error")
	fs.BoolVar(&c.ShowVersion, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("parse flags: unexpected arguments %v", fs.Args())
	}
	return nil
}

// Validate reports the first unusable setting
func (c *Config) Validate() error {
	switch {
	case c.SecretKey == "":
		return fmt.Errorf("%w: SECRET_KEY is required", ErrInvalidConfig)
	case c.SecretKey == placeholderSecret:
		return fmt.Errorf("%w: SECRET_KEY is the sample placeholder, generate a real secret", ErrInvalidConfig)
	case len(c.SecretKey) < MinSecretKeyLen:
		return fmt.Errorf("%w: SECRET_KEY must be at least %d bytes", ErrInvalidConfig, MinSecretKeyLen)
	}

	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("%w: unsupported ALGORITHM %q", ErrInvalidConfig, c.Algorithm)
	}

	if c.AccessTokenExpireMinutes <= 0 || c.AccessTokenExpireMinutes > MaxAccessTokenExpireMinutes {
		return fmt.Errorf("%w: ACCESS_TOKEN_EXPIRE_MINUTES must be between 1 and %d",
			ErrInvalidConfig, MaxAccessTokenExpireMinutes)
	}

	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is required for %s", ErrInvalidConfig, c.StorageDriver)
		}
	case DriverMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("%w: MONGO_URL is required for mongo", ErrInvalidConfig)
		}
	case DriverBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("%w: BOLT_PATH is required for bolt", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalidConfig, c.StorageDriver)
	}

	switch c.PasswordHasher {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("%w: unknown PASSWORD_HASHER %q", ErrInvalidConfig, c.PasswordHasher)
	}

	if c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0 {
		return fmt.Errorf("%w: LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive", ErrInvalidConfig)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// AccessTokenTTL is ACCESS_TOKEN_EXPIRE_MINUTES as a duration
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// SlogLevel maps LogLevel to a slog.Level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: unknown LOG_LEVEL %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
