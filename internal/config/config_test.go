package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:          "8081",
		AdminPassword: "segreto",
		Timezone:      "Asia/Taipei",
		DataBackend:   "memory",
		MongoDB:       "incassi",
		SQLiteDBPath:  "./data/incassi.db",
		CacheTTL:      time.Minute,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ADMIN_PASSWORD", "TIMEZONE", "DATA_BACKEND", "MONGODB_URI", "MONGODB_DB", "SQLITE_DB_PATH", "CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.Timezone != "Asia/Taipei" {
		t.Errorf("Timezone = %q, want Asia/Taipei", cfg.Timezone)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.CacheTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("DATA_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("CACHE_TTL", "30s")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DataBackend != "mongo" || cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		errorHas string
	}{
		{"valid memory config", func(c *Config) {}, false, ""},
		{"bad port", func(c *Config) { c.Port = "nope" }, true, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true, "invalid port"},
		{"missing admin password", func(c *Config) { c.AdminPassword = "" }, true, "ADMIN_PASSWORD"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true, "invalid timezone"},
		{"unknown backend", func(c *Config) { c.DataBackend = "postgres" }, true, "invalid data backend"},
		{"mongo without uri", func(c *Config) { c.DataBackend = "mongo" }, true, "MONGODB_URI is required"},
		{"mongo bad scheme", func(c *Config) {
			c.DataBackend = "mongo"
			c.MongoURI = "http://localhost"
		}, true, "invalid Mongo URI scheme"},
		{"mongo valid", func(c *Config) {
			c.DataBackend = "mongo"
			c.MongoURI = "mongodb+srv://cluster.example.net"
		}, false, ""},
		{"sqlite without path", func(c *Config) {
			c.DataBackend = "sqlite"
			c.SQLiteDBPath = ""
		}, true, "SQLite database path"},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, true, "cache TTL"},
		{"huge ttl", func(c *Config) { c.CacheTTL = 2 * time.Hour }, true, "cache TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if cfg.DataBackend == "sqlite" || tt.name == "valid memory config" {
				cfg.SQLiteDBPath = t.TempDir() + "/incassi.db"
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorHas) {
				t.Errorf("error %q does not mention %q", err, tt.errorHas)
			}
		})
	}
}
