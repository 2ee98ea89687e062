package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medessence/medessence/internal/platform/telemetry"
)

// ServiceConfig wires the generation service.
type ServiceConfig struct {
	Providers      []Provider
	Local          Provider
	CallTimeout    time.Duration
	MaxPromptChars int
	CacheTTL       time.Duration
	CacheMaxSize   int
	Logger         zerolog.Logger
	Telemetry      *telemetry.Telemetry
}

// Service owns the cache and the backend fallback chain. It is constructed
// once with injected configuration; separate instances never share state.
type Service struct {
	cache          *resultCache
	providers      []Provider
	local          Provider
	callTimeout    time.Duration
	maxPromptChars int
	logger         zerolog.Logger
	tel            *telemetry.Telemetry
}

// NewService creates a generation service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		cache:          newResultCache(cfg.CacheTTL, cfg.CacheMaxSize),
		providers:      cfg.Providers,
		local:          cfg.Local,
		callTimeout:    cfg.CallTimeout,
		maxPromptChars: cfg.MaxPromptChars,
		logger:         cfg.Logger,
		tel:            cfg.Telemetry,
	}
}

// StartCacheSweep launches the periodic TTL sweep; it stops when the context
// is cancelled.
func (s *Service) StartCacheSweep(ctx context.Context, interval time.Duration) {
	s.cache.StartSweep(ctx, interval)
}

// Generate runs one generation call: cache lookup, then the backend chain in
// priority order, then response parsing. A backend failure or timeout
// advances the chain; only full exhaustion reaches the caller.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}
	if req.Language == "" {
		req.Language = "de"
	}
	if req.Operation == "" {
		req.Operation = OperationReport
	}
	req.Text = Truncate(req.Text, s.maxPromptChars)

	key := cacheKey(req.Operation, req.Language, req.Text)
	if cached, ok := s.cache.Get(key); ok {
		cached.CacheHit = true
		s.count("cache_hits_total", nil)
		return &cached, nil
	}
	s.count("cache_misses_total", nil)

	prompt := BuildPrompt(req)
	chain := s.chainFor(req.Mode)
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: no backends configured", ErrExhausted)
	}

	var failures []string
	for _, provider := range chain {
		start := time.Now()
		raw, err := s.callProvider(ctx, provider, prompt, req.Language)
		latency := time.Since(start)

		if err != nil {
			perr := &ProviderError{Provider: provider.Name(), Err: err}
			failures = append(failures, perr.Error())
			s.logger.Warn().
				Str("provider", provider.Name()).
				Dur("latency", latency).
				Err(err).
				Msg("backend failed, advancing chain")
			s.count("generation_calls_total", map[string]string{
				"provider": provider.Name(), "outcome": "error",
			})
			continue
		}

		result, fellBack := parseResponse(raw)
		result.Provider = provider.Name()
		result.ParseFellBack = fellBack
		result.LatencyMs = latency.Milliseconds()

		s.cache.Set(key, result)
		s.count("generation_calls_total", map[string]string{
			"provider": provider.Name(), "outcome": "ok",
		})
		s.observe("generation_duration_ms", map[string]string{
			"provider": provider.Name(),
		}, float64(latency.Milliseconds()))
		s.logger.Info().
			Str("provider", provider.Name()).
			Str("operation", string(req.Operation)).
			Bool("parse_fell_back", fellBack).
			Dur("latency", latency).
			Msg("generation completed")

		return &result, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrExhausted, strings.Join(failures, "; "))
}

// chainFor returns the backend priority order for the requested mode. Local
// mode tries the local model first and keeps the cloud chain as fallback.
func (s *Service) chainFor(mode Mode) []Provider {
	if mode == ModeLocal && s.local != nil {
		return append([]Provider{s.local}, s.providers...)
	}
	return s.providers
}

// callProvider races one backend call against the per-call timeout. A late
// result from a timed-out call is discarded, not cancelled at network level.
func (s *Service) callProvider(ctx context.Context, p Provider, prompt, language string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	type outcome struct {
		raw string
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		raw, err := p.Generate(callCtx, prompt, language)
		done <- outcome{raw: raw, err: err}
	}()

	select {
	case <-callCtx.Done():
		return "", fmt.Errorf("call timed out after %s", s.callTimeout)
	case out := <-done:
		return out.raw, out.err
	}
}

func (s *Service) count(metric string, labels map[string]string) {
	if s.tel != nil {
		s.tel.Count(metric, labels)
	}
}

func (s *Service) observe(metric string, labels map[string]string, v float64) {
	if s.tel != nil {
		s.tel.Observe(metric, labels, v)
	}
}
