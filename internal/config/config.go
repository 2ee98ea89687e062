package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all externally supplied settings for the decision engine.
// Every tunable the orchestration, generation, and retrieval layers consume
// lives here so that no component carries hardcoded policy.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Catalog database. When empty the server runs on the embedded
	// in-memory ICD-10 catalog (development mode).
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	// Generation backends, highest priority first.
	ProviderOrder   []string `mapstructure:"PROVIDER_ORDER"`
	AnthropicAPIKey string   `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel  string   `mapstructure:"ANTHROPIC_MODEL"`
	OpenAIAPIKey    string   `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel     string   `mapstructure:"OPENAI_MODEL"`
	GeminiAPIKey    string   `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string   `mapstructure:"GEMINI_MODEL"`

	GenerationTimeoutSec int `mapstructure:"GENERATION_TIMEOUT_SEC"`
	MaxPromptChars       int `mapstructure:"MAX_PROMPT_CHARS"`

	CacheTTLSec           int `mapstructure:"CACHE_TTL_SEC"`
	CacheMaxEntries       int `mapstructure:"CACHE_MAX_ENTRIES"`
	CacheSweepIntervalSec int `mapstructure:"CACHE_SWEEP_INTERVAL_SEC"`

	// Local model host (Ollama-compatible API).
	OllamaURL          string  `mapstructure:"OLLAMA_URL"`
	SafeMemoryFraction float64 `mapstructure:"SAFE_MEMORY_FRACTION"`
	LocalEmptyRetries  int     `mapstructure:"LOCAL_EMPTY_RETRIES"`

	// Orchestration policy.
	ConfidenceThreshold float64 `mapstructure:"CONFIDENCE_THRESHOLD"`
	EnsembleSize        int     `mapstructure:"ENSEMBLE_SIZE"`

	// Classifier overlap tie-break boost. Empirically tuned; deliberately
	// configurable rather than baked into the classifier.
	OverlapBoost float64 `mapstructure:"OVERLAP_BOOST"`

	// Code retrieval policy.
	RetrievalMinScore   float64 `mapstructure:"RETRIEVAL_MIN_SCORE"`
	RetrievalMaxResults int     `mapstructure:"RETRIEVAL_MAX_RESULTS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8100")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("PROVIDER_ORDER", "anthropic,gemini,openai")
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-pro")
	v.SetDefault("GENERATION_TIMEOUT_SEC", 30)
	v.SetDefault("MAX_PROMPT_CHARS", 12000)
	v.SetDefault("CACHE_TTL_SEC", 1800)
	v.SetDefault("CACHE_MAX_ENTRIES", 500)
	v.SetDefault("CACHE_SWEEP_INTERVAL_SEC", 300)
	v.SetDefault("OLLAMA_URL", "http://localhost:11434")
	v.SetDefault("SAFE_MEMORY_FRACTION", 0.6)
	v.SetDefault("LOCAL_EMPTY_RETRIES", 3)
	v.SetDefault("CONFIDENCE_THRESHOLD", 0.6)
	v.SetDefault("ENSEMBLE_SIZE", 3)
	v.SetDefault("OVERLAP_BOOST", 1.5)
	v.SetDefault("RETRIEVAL_MIN_SCORE", 0.3)
	v.SetDefault("RETRIEVAL_MAX_RESULTS", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"PROVIDER_ORDER", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"GENERATION_TIMEOUT_SEC", "MAX_PROMPT_CHARS",
		"CACHE_TTL_SEC", "CACHE_MAX_ENTRIES", "CACHE_SWEEP_INTERVAL_SEC",
		"OLLAMA_URL", "SAFE_MEMORY_FRACTION", "LOCAL_EMPTY_RETRIES",
		"CONFIDENCE_THRESHOLD", "ENSEMBLE_SIZE", "OVERLAP_BOOST",
		"RETRIEVAL_MIN_SCORE", "RETRIEVAL_MAX_RESULTS",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.ProviderOrder == nil {
		if order := v.GetString("PROVIDER_ORDER"); order != "" {
			cfg.ProviderOrder = strings.Split(order, ",")
		}
	}
	for i, p := range cfg.ProviderOrder {
		cfg.ProviderOrder[i] = strings.TrimSpace(strings.ToLower(p))
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// GenerationTimeout returns the per-backend call timeout.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSec) * time.Second
}

// CacheTTL returns how long a cached generation result stays valid.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// CacheSweepInterval returns the cadence of the background expiry sweep.
func (c *Config) CacheSweepInterval() time.Duration {
	return time.Duration(c.CacheSweepIntervalSec) * time.Second
}

var knownProviders = map[string]bool{
	"anthropic": true, "openai": true, "gemini": true, "ollama": true,
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be in (0,1], got %v", c.ConfidenceThreshold)
	}
	if c.SafeMemoryFraction <= 0 || c.SafeMemoryFraction > 1 {
		return fmt.Errorf("SAFE_MEMORY_FRACTION must be in (0,1], got %v", c.SafeMemoryFraction)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.CacheMaxEntries)
	}
	if c.EnsembleSize < 1 {
		return fmt.Errorf("ENSEMBLE_SIZE must be at least 1, got %d", c.EnsembleSize)
	}
	if c.RetrievalMinScore < 0 || c.RetrievalMinScore > 1 {
		return fmt.Errorf("RETRIEVAL_MIN_SCORE must be in [0,1], got %v", c.RetrievalMinScore)
	}
	if c.OverlapBoost < 1 {
		return fmt.Errorf("OVERLAP_BOOST must be >= 1, got %v", c.OverlapBoost)
	}
	for _, p := range c.ProviderOrder {
		if !knownProviders[p] {
			return fmt.Errorf("unknown provider %q in PROVIDER_ORDER (supported: anthropic, openai, gemini, ollama)", p)
		}
	}
	return nil
}
