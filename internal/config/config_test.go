package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Store != StoreMongoDB {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreMongoDB)
	}
	if cfg.SessionStore != SessionsMemory {
		t.Errorf("SessionStore = %q, want %q", cfg.SessionStore, SessionsMemory)
	}
	if cfg.SessionTTL != 15*time.Minute {
		t.Errorf("SessionTTL = %s, want 15m", cfg.SessionTTL)
	}
	if cfg.Ownership != OwnershipCreator {
		t.Errorf("Ownership = %q, want %q", cfg.Ownership, OwnershipCreator)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if !cfg.SecretGenerated || len(cfg.SessionSecret) < 16 {
		t.Errorf("expected a generated secret, got %q (generated=%v)", cfg.SessionSecret, cfg.SecretGenerated)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("SNIPPETS_STORE", "sqlite")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SNIPPET_OWNERSHIP", "open")
	t.Setenv("ADMIN_USERS", " alice , ,bob")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8081 || cfg.Store != StoreSQLite || cfg.SessionStore != SessionsRedis {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.SecretGenerated {
		t.Error("SecretGenerated = true with SESSION_SECRET set")
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %s, want 1h", cfg.SessionTTL)
	}
	if len(cfg.AdminUsers) != 2 || !cfg.IsAdmin("alice") || !cfg.IsAdmin("bob") {
		t.Errorf("AdminUsers = %q, want [alice bob]", cfg.AdminUsers)
	}
	if cfg.IsAdmin("carol") {
		t.Error("IsAdmin(carol) = true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad store":     {"SNIPPETS_STORE", "postgres"},
		"bad sessions":  {"SESSION_STORE", "file"},
		"bad ownership": {"SNIPPET_OWNERSHIP", "nobody"},
		"short secret":  {"SESSION_SECRET", "short"},
		"zero ttl":      {"SESSION_TTL", "0s"},
		"low cost":      {"BCRYPT_COST", "2"},
		"bad level":     {"LOG_LEVEL", "loud"},
		"bad port":      {"PORT", "70000"},
		"not an int":    {"PORT", "abc"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			if err == nil {
				t.Fatalf("Load() with %s=%s should fail", kv[0], kv[1])
			}
			if !strings.HasPrefix(err.Error(), "config:") {
				t.Errorf("error %q lacks config: prefix", err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
