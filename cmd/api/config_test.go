package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ADDR", "STORE_DRIVER", "DB_QUERY_TIMEOUT", "CORS_ALLOWED_ORIGINS", "DB_AUTO_SCHEMA"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.StoreDriver != "postgres" {
		t.Errorf("expected postgres driver, got %q", cfg.StoreDriver)
	}
	if cfg.QueryTimeout != 3*time.Second {
		t.Errorf("expected 3s query timeout, got %s", cfg.QueryTimeout)
	}
	if !cfg.AutoSchema {
		t.Error("expected schema bootstrap on by default")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ENABLE_HSTS", "true")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("expected memory driver, got %q", cfg.StoreDriver)
	}
	if cfg.QueryTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.QueryTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if !cfg.EnableHSTS {
		t.Error("expected HSTS enabled")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":     "sqlite",
		"DB_QUERY_TIMEOUT": "soon",
		"RATE_LIMIT_BURST": "lots",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := loadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")

	if err := os.WriteFile(p, []byte("DB_DSN=from_file\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("DB_DSN", "from_env")

	cwd, _ := os.Getwd()
	_ = os.Chdir(tmp)
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	loadEnvFiles()

	if got := os.Getenv("DB_DSN"); got != "from_env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}

func TestRedactDSN(t *testing.T) {
	got := redactDSN("postgres://user:secret@db:5432/books")
	if got != "postgres://***@db:5432/books" {
		t.Fatalf("unexpected redaction %q", got)
	}
	if got := redactDSN("host=db"); got != "host=db" {
		t.Fatalf("expected untouched dsn, got %q", got)
	}
}
