package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "http://backend:5000"
  timeout: "3s"
delivery:
  fee: 75
  fee_methods:
    - cash
    - card
metrics:
  enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.BaseURL != "http://backend:5000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Std() != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.API.Timeout.Std())
	}
	if cfg.Delivery.Fee != 75 {
		t.Errorf("Fee = %v, want 75", cfg.Delivery.Fee)
	}
	if !cfg.Delivery.AppliesTo("card") {
		t.Error("AppliesTo(card) = false, want true")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if !cfg.Delivery.AppliesTo("cash") || cfg.Delivery.AppliesTo("card") {
		t.Error("default fee rule must apply to cash only")
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "api:\n  timeout: \"soon\"\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an invalid duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KUSINA_API_URL", "http://other:8000")
	t.Setenv("KUSINA_API_TIMEOUT", "2s")
	t.Setenv("KUSINA_DELIVERY_FEE", "60")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://other:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Std() != 2*time.Second {
		t.Errorf("Timeout = %v", cfg.API.Timeout.Std())
	}
	if cfg.Delivery.Fee != 60 {
		t.Errorf("Fee = %v", cfg.Delivery.Fee)
	}
}
