package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
  mode: production
jwt:
  secret: file-secret
  token_expiration: 24h
database:
  dbname: leave_test
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for production mode")
	}
	if cfg.JWT.TokenExpiration != "24h" {
		t.Errorf("TokenExpiration = %q", cfg.JWT.TokenExpiration)
	}
	// Untouched values fall back to defaults
	if cfg.Database.Host != "localhost" {
		t.Errorf("Host = %q, want default", cfg.Database.Host)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want default 12", cfg.Auth.BcryptCost)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: file-secret
`)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, want the environment value", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("Secret = %q, environment should win over the file", cfg.JWT.Secret)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  port: "8080"
`)
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig accepted a config without a JWT secret")
		}
	})

	t.Run("bad token expiration", func(t *testing.T) {
		path := writeConfigFile(t, `
jwt:
  secret: s
  token_expiration: thirty-days
`)
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig accepted a malformed token expiration")
		}
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		path := writeConfigFile(t, `
jwt:
  secret: s
auth:
  bcrypt_cost: 2
`)
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig accepted an out-of-range bcrypt cost")
		}
	})
}

func TestGetPostgresConnectionString(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: s
database:
  user: app
  password: pw
  host: db.internal
  port: "5433"
  dbname: leave
  sslmode: require
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	conn := cfg.GetPostgresConnectionString()
	want := "postgres://app:pw@db.internal:5433/leave?sslmode=require"
	if conn != want {
		t.Errorf("connection string = %q, want %q", conn, want)
	}
	if !strings.Contains(conn, "sslmode=require") {
		t.Error("sslmode missing from connection string")
	}
}
