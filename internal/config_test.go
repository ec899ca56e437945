package internal

import (
	"testing"
	"time"
)

func TestNewDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.API.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.API.Timeout())
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.API.TimeoutSeconds = 0 }},
		{"excessive timeout", func(c *Config) { c.API.TimeoutSeconds = 3600 }},
		{"missing ledger path", func(c *Config) { c.Sync.LedgerPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_EmptyTokenAllowed(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.API.Token = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty token rejected: %v", err)
	}
}
