package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

// ModelInfo describes one locally available model.
type ModelInfo struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size"`
}

// OllamaClient talks to a locally hosted model server. Model selection reads
// live memory statistics at call time since available memory fluctuates.
type OllamaClient struct {
	baseURL      string
	client       *http.Client
	safeFraction float64
	emptyRetries int
	retryBackoff time.Duration
	logger       zerolog.Logger

	// memoryBudget is replaceable in tests; the default reads gopsutil.
	memoryBudget func() (int64, error)
}

// NewOllamaClient creates a client for the given server URL.
func NewOllamaClient(baseURL string, safeFraction float64, emptyRetries int, logger zerolog.Logger) *OllamaClient {
	c := &OllamaClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       newHTTPClient(),
		safeFraction: safeFraction,
		emptyRetries: emptyRetries,
		retryBackoff: 500 * time.Millisecond,
		logger:       logger,
	}
	c.memoryBudget = c.liveMemoryBudget
	return c
}

// liveMemoryBudget computes the safe model budget from current memory stats:
// the configured fraction of whichever is smaller, total or available plus a
// working margin.
func (c *OllamaClient) liveMemoryBudget() (int64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read memory stats: %w", err)
	}
	limit := vm.Total
	if vm.Available < limit {
		limit = vm.Available
	}
	return int64(float64(limit) * c.safeFraction), nil
}

// ListModels returns the locally installed models.
func (c *OllamaClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	raw, err := decodeOrError(resp, "ollama")
	if err != nil {
		return nil, err
	}

	var out struct {
		Models []ModelInfo `json:"models"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}
	return out.Models, nil
}

// generateOnce performs a single non-streaming generation call.
func (c *OllamaClient) generateOnce(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	raw, err := decodeOrError(resp, "ollama")
	if err != nil {
		return "", err
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.Response, nil
}

// Generate calls the model, retrying empty responses up to the configured
// attempt budget with a short backoff before treating the model as exhausted.
func (c *OllamaClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	attempts := c.emptyRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := c.generateOnce(ctx, model, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		c.logger.Warn().
			Str("model", model).
			Int("attempt", attempt).
			Msg("local model returned empty response")
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryBackoff):
			}
		}
	}
	return "", fmt.Errorf("%w: model %s returned empty responses", ErrExhausted, model)
}

// ---------------------------------------------------------------------------
// Model selection
// ---------------------------------------------------------------------------

// recommendedModels are preferred after domain-specialized ones.
var recommendedModels = map[string]bool{
	"llama3:8b":  true,
	"mistral:7b": true,
	"qwen2:7b":   true,
}

// modelRank orders candidates: domain-specialized first, explicitly
// recommended second, then larger models, legacy generations last.
func modelRank(m ModelInfo) int {
	name := strings.ToLower(m.Name)
	switch {
	case strings.Contains(name, "med") || strings.Contains(name, "clinical"):
		return 0
	case recommendedModels[name]:
		return 1
	case strings.Contains(name, "llama2") || strings.Contains(name, "legacy"):
		return 3
	default:
		return 2
	}
}

// rankModels sorts candidates by rank, then by size descending within a rank.
func rankModels(models []ModelInfo) []ModelInfo {
	out := make([]ModelInfo, len(models))
	copy(out, models)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := modelRank(out[i]), modelRank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i].SizeBytes > out[j].SizeBytes
	})
	return out
}

// fitsBudget filters models whose size fits the memory budget.
func fitsBudget(models []ModelInfo, budget int64) []ModelInfo {
	var out []ModelInfo
	for _, m := range models {
		if m.SizeBytes <= budget {
			out = append(out, m)
		}
	}
	return out
}

// SelectModel chooses the best installed model that fits the live memory
// budget and validates it with a lightweight test call.
func (c *OllamaClient) SelectModel(ctx context.Context) (string, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("list local models: %w", err)
	}
	if len(models) == 0 {
		return "", fmt.Errorf("no local models installed")
	}

	budget, err := c.memoryBudget()
	if err != nil {
		return "", err
	}

	candidates := rankModels(fitsBudget(models, budget))
	if len(candidates) == 0 {
		return "", fmt.Errorf("no local model fits memory budget of %d bytes", budget)
	}

	for _, m := range candidates {
		if _, err := c.generateOnce(ctx, m.Name, "OK"); err != nil {
			c.logger.Warn().Str("model", m.Name).Err(err).Msg("model validation failed")
			continue
		}
		c.logger.Info().Str("model", m.Name).Msg("local model selected")
		return m.Name, nil
	}
	return "", fmt.Errorf("no local model passed validation")
}

// ---------------------------------------------------------------------------
// Provider adapter
// ---------------------------------------------------------------------------

// LocalProvider adapts the Ollama client to the Provider interface. The model
// is selected lazily on first use; one instance serves concurrent callers, so
// selection is guarded and runs at most once per successful selection.
type LocalProvider struct {
	client *OllamaClient

	mu    sync.Mutex
	model string
}

func NewLocalProvider(client *OllamaClient) *LocalProvider {
	return &LocalProvider{client: client}
}

func (p *LocalProvider) Name() string { return "ollama" }

// selectedModel returns the cached model name, selecting one on first use.
// A failed selection is not cached; the next call retries.
func (p *LocalProvider) selectedModel(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != "" {
		return p.model, nil
	}
	model, err := p.client.SelectModel(ctx)
	if err != nil {
		return "", err
	}
	p.model = model
	return model, nil
}

func (p *LocalProvider) Generate(ctx context.Context, prompt, language string) (string, error) {
	model, err := p.selectedModel(ctx)
	if err != nil {
		return "", err
	}
	return p.client.Generate(ctx, model, prompt)
}
