package orchestration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medessence/medessence/internal/domain/classification"
	"github.com/medessence/medessence/internal/domain/generation"
	"github.com/medessence/medessence/internal/domain/retrieval"
)

// stubProvider returns a fixed backend response.
type stubProvider struct {
	response string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, prompt, language string) (string, error) {
	return s.response, nil
}

// failingRepo simulates a catalog outage.
type failingRepo struct{}

var errCatalogDown = errors.New("catalog unavailable")

func (failingRepo) Search(ctx context.Context, term string, limit int) ([]retrieval.Code, error) {
	return nil, errCatalogDown
}

func (failingRepo) GetByCode(ctx context.Context, code string) (*retrieval.Code, error) {
	return nil, errCatalogDown
}

func (failingRepo) ListByChapters(ctx context.Context, chapters []string, limit int) ([]retrieval.Code, error) {
	return nil, errCatalogDown
}

func (failingRepo) List(ctx context.Context) ([]retrieval.Code, error) {
	return nil, errCatalogDown
}

func TestCategoryPathway_ToleratesRetrievalFailure(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	gen := generation.NewService(generation.ServiceConfig{
		Providers:      []generation.Provider{&stubProvider{response: `{"findings": {"content": "Kein Herdbefund."}, "impression": "Unauffällig."}`}},
		CallTimeout:    200 * time.Millisecond,
		MaxPromptChars: 10000,
		CacheTTL:       time.Minute,
		CacheMaxSize:   10,
		Logger:         logger,
	})
	engine := retrieval.NewEngine(failingRepo{}, retrieval.DefaultWeights(), logger)
	p := newCategoryPathway(classification.CategoryMammography, gen, engine, logger)

	res, err := p.Process(context.Background(), ProcessRequest{Text: mammographyText, Language: "de"})
	if err != nil {
		t.Fatalf("retrieval outage must not fail the pathway: %v", err)
	}
	if res.Codes != nil {
		t.Errorf("expected no code candidates during an outage, got %v", res.Codes)
	}
	if res.Generation == nil || res.Generation.Findings.Content == "" {
		t.Error("generation output must still contribute")
	}
}
