package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://api.weather.gov" {
		t.Fatalf("unexpected base URL: %s", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.UserAgent == "" {
		t.Fatal("user agent must have a default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NWS_USER_AGENT", "myapp/2.0 (me@example.com)")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.UserAgent != "myapp/2.0 (me@example.com)" {
		t.Fatalf("unexpected user agent: %s", cfg.UserAgent)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable HTTP_TIMEOUT")
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("NWS_BASE_URL", "not a url")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid NWS_BASE_URL")
	}
}
