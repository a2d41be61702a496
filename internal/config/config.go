// Package config loads the server configuration from environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Store backends.
const (
	StoreMongoDB = "mongodb"
	StoreSQLite  = "sqlite"
)

// Session backends.
const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

// Snippet ownership policies.
const (
	OwnershipCreator = "creator"
	OwnershipOpen    = "open"
)

// Config is the full server configuration. Every field has a working
// default, so an empty environment starts a local server against MongoDB on
// localhost.
type Config struct {
	Port int `env:"PORT" envDefault:"3000"`

	Store         string `env:"SNIPPETS_STORE" envDefault:"mongodb"`
	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"snippets"`
	DBPath        string `env:"DB_PATH"        envDefault:"data/snippets.db"`

	SessionStore  string        `env:"SESSION_STORE"  envDefault:"memory"`
	RedisAddr     string        `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"15m"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	Ownership  string   `env:"SNIPPET_OWNERSHIP" envDefault:"creator"`
	AdminUsers []string `env:"ADMIN_USERS"       envSeparator:","`
	BcryptCost int      `env:"BCRYPT_COST"       envDefault:"10"`

	StaticDir string `env:"STATIC_DIR"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// SecretGenerated is set when SESSION_SECRET was empty and a random
	// per-process secret was used instead.
	SecretGenerated bool `env:"-"`
}

// Load parses the environment, fills in a random session secret if none is
// set, and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.AdminUsers = trimCSV(cfg.AdminUsers)

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.SessionSecret = secret
		cfg.SecretGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	switch c.Store {
	case StoreMongoDB, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("SNIPPETS_STORE %q: want %s or %s", c.Store, StoreMongoDB, StoreSQLite))
	}
	switch c.SessionStore {
	case SessionsMemory, SessionsRedis:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE %q: want %s or %s", c.SessionStore, SessionsMemory, SessionsRedis))
	}
	switch c.Ownership {
	case OwnershipCreator, OwnershipOpen:
	default:
		errs = append(errs, fmt.Errorf("SNIPPET_OWNERSHIP %q: want %s or %s", c.Ownership, OwnershipCreator, OwnershipOpen))
	}
	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 characters"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL %s must be positive", c.SessionTTL))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d outside [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ParseLevel maps LOG_LEVEL to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// IsAdmin reports whether username is listed in ADMIN_USERS.
func (c Config) IsAdmin(username string) bool {
	for _, a := range c.AdminUsers {
		if a == username {
			return true
		}
	}
	return false
}

func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("config: generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
