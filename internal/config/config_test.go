package config

import (
	"testing"
	"time"
)

// TestLoadDefaults tests the built-in defaults
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Errorf("addr default wrong: %q", cfg.Addr)
	}
	if cfg.Backend != "mongo" {
		t.Errorf("backend default wrong: %q", cfg.Backend)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("access ttl default wrong: %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("refresh ttl default wrong: %v", cfg.RefreshTTL)
	}
}

// TestLoadEnvOverrides tests DOCAPI_-prefixed environment binding
func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DOCAPI_BACKEND", "badger")
	t.Setenv("DOCAPI_ADDR", ":9000")
	t.Setenv("DOCAPI_ACCESS_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Backend != "badger" {
		t.Errorf("backend override ignored: %q", cfg.Backend)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("addr override ignored: %q", cfg.Addr)
	}
	if cfg.AccessTTL != time.Hour {
		t.Errorf("ttl override ignored: %v", cfg.AccessTTL)
	}
}

// TestLoadPortFallback tests the bare PORT variable
func TestLoadPortFallback(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("PORT not honored: %q", cfg.Addr)
	}
}
