package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the application configuration.
type Config struct {
	API struct {
		BaseURL       string   `yaml:"base_url"`
		Timeout       Duration `yaml:"timeout"`
		LiveStatsPath string   `yaml:"live_stats_path"`
	} `yaml:"api"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Metrics  struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
}

// DeliveryConfig decides the flat delivery fee and which payment methods it
// applies to. The observed deployments disagreed on whether card orders
// carry the fee, so the rule is a deployment decision rather than hardcoded.
type DeliveryConfig struct {
	Fee        float64  `yaml:"fee"`
	FeeMethods []string `yaml:"fee_methods"`
}

// AppliesTo reports whether the delivery fee is charged for a payment method.
func (d DeliveryConfig) AppliesTo(method string) bool {
	for _, m := range d.FeeMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "http://localhost:5000"
	cfg.API.Timeout = Duration(10 * time.Second)
	cfg.API.LiveStatsPath = "/ws/landing"
	cfg.Delivery.Fee = 50
	cfg.Delivery.FeeMethods = []string{"cash"}
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 9090
	return cfg
}

// Load reads a YAML configuration file and applies environment overrides.
// A missing file is not an error; defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = Duration(10 * time.Second)
	}
	return cfg, nil
}

// applyEnv layers KUSINA_* environment variables over the file values so a
// deployment can point at a different backend without editing the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("KUSINA_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("KUSINA_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("KUSINA_DELIVERY_FEE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Delivery.Fee = f
		}
	}
	if v := os.Getenv("KUSINA_METRICS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Metrics.Port = p
		}
	}
}
