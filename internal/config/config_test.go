package config

import (
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("requires secrets", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("JWT_REFRESH_SECRET", "")
		t.Setenv("ENCRYPTION_KEY", "")
		t.Setenv("PORT", "9000")
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("CORS_ORIGINS", "http://localhost:3000")

		if _, err := Load(log.Default()); err == nil {
			t.Fatalf("expected error for missing JWT_SECRET")
		}

		t.Setenv("JWT_SECRET", "jwt-secret")
		if _, err := Load(log.Default()); err == nil {
			t.Fatalf("expected error for missing JWT_REFRESH_SECRET")
		}
	})

	t.Run("rejects shared access and refresh secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "same")
		t.Setenv("JWT_REFRESH_SECRET", "same")
		t.Setenv("ENCRYPTION_KEY", "enc-key")
		t.Setenv("PORT", "9000")
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("CORS_ORIGINS", "http://localhost:3000")

		if _, err := Load(log.Default()); err == nil {
			t.Fatalf("expected error for shared signing secret")
		}
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt-secret")
		t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
		t.Setenv("ENCRYPTION_KEY", "enc-key")
		t.Setenv("PORT", "9000")
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local,")

		cfg, err := Load(log.Default())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Port != "9000" || cfg.DatabaseURL != "postgres://localhost/test" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.local" {
			t.Fatalf("unexpected CORS origins: %+v", cfg.CORSOrigins)
		}
		if cfg.JWTSecret != "jwt-secret" || cfg.JWTRefreshSecret != "refresh-secret" || cfg.EncryptionKey != "enc-key" {
			t.Fatalf("unexpected secrets in config: %+v", cfg)
		}
	})
}

func TestParseEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nexport FOO_FROM_FILE=bar\nQUOTED_FROM_FILE=\"hello world\"\nPRESET_FROM_FILE=ignored\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("FOO_FROM_FILE", "")
	os.Unsetenv("FOO_FROM_FILE")
	t.Setenv("QUOTED_FROM_FILE", "")
	os.Unsetenv("QUOTED_FROM_FILE")
	t.Setenv("PRESET_FROM_FILE", "kept")

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open env file: %v", err)
	}
	defer file.Close()

	if err := parseEnvFile(log.Default(), file); err != nil {
		t.Fatalf("parse env file: %v", err)
	}

	if got := os.Getenv("FOO_FROM_FILE"); got != "bar" {
		t.Fatalf("expected bar, got %q", got)
	}
	if got := os.Getenv("QUOTED_FROM_FILE"); got != "hello world" {
		t.Fatalf("expected quotes stripped, got %q", got)
	}
	if got := os.Getenv("PRESET_FROM_FILE"); got != "kept" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
