package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "8100" {
		t.Errorf("expected default port 8100, got %s", cfg.Port)
	}
	if cfg.ConfidenceThreshold != 0.6 {
		t.Errorf("expected default confidence threshold 0.6, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.EnsembleSize != 3 {
		t.Errorf("expected default ensemble size 3, got %d", cfg.EnsembleSize)
	}
	if cfg.CacheTTL() != 30*time.Minute {
		t.Errorf("expected default cache TTL 30m, got %v", cfg.CacheTTL())
	}
	if len(cfg.ProviderOrder) != 3 || cfg.ProviderOrder[0] != "anthropic" {
		t.Errorf("unexpected default provider order: %v", cfg.ProviderOrder)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_ProviderOrderFromEnv(t *testing.T) {
	t.Setenv("PROVIDER_ORDER", "Ollama, OpenAI")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.ProviderOrder) != 2 || cfg.ProviderOrder[0] != "ollama" || cfg.ProviderOrder[1] != "openai" {
		t.Errorf("provider order not normalized: %v", cfg.ProviderOrder)
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold too high", func(c *Config) { c.ConfidenceThreshold = 1.5 }, "CONFIDENCE_THRESHOLD"},
		{"threshold zero", func(c *Config) { c.ConfidenceThreshold = 0 }, "CONFIDENCE_THRESHOLD"},
		{"memory fraction", func(c *Config) { c.SafeMemoryFraction = 0 }, "SAFE_MEMORY_FRACTION"},
		{"cache entries", func(c *Config) { c.CacheMaxEntries = 0 }, "CACHE_MAX_ENTRIES"},
		{"ensemble size", func(c *Config) { c.EnsembleSize = 0 }, "ENSEMBLE_SIZE"},
		{"min score", func(c *Config) { c.RetrievalMinScore = 2 }, "RETRIEVAL_MIN_SCORE"},
		{"overlap boost", func(c *Config) { c.OverlapBoost = 0.5 }, "OVERLAP_BOOST"},
		{"unknown provider", func(c *Config) { c.ProviderOrder = []string{"cohere"} }, "unknown provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
