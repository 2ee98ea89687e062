package orchestration

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medessence/medessence/internal/domain/classification"
	"github.com/medessence/medessence/internal/domain/generation"
	"github.com/medessence/medessence/internal/domain/retrieval"
)

// Pathway produces a category-specific result for one report text. One
// implementation exists per examination category plus an explicit general
// default.
type Pathway interface {
	Category() classification.Category
	Process(ctx context.Context, req ProcessRequest) (*PathwayResult, error)
}

// PathwayResult is one pathway's contribution before merging.
type PathwayResult struct {
	Category   classification.Category
	Generation *generation.Result
	Codes      []retrieval.CodeCandidate
	Enhanced   *EnhancedFindings
}

// categoryPathway routes generation and code retrieval through one category.
type categoryPathway struct {
	category classification.Category
	gen      *generation.Service
	codes    *retrieval.Engine
	logger   zerolog.Logger
}

func newCategoryPathway(category classification.Category, gen *generation.Service, codes *retrieval.Engine, logger zerolog.Logger) *categoryPathway {
	return &categoryPathway{category: category, gen: gen, codes: codes, logger: logger}
}

func (p *categoryPathway) Category() classification.Category { return p.category }

// Process generates the structured report for this category, then retrieves
// code candidates for the findings text and buckets findings by significance.
func (p *categoryPathway) Process(ctx context.Context, req ProcessRequest) (*PathwayResult, error) {
	genResult, err := p.gen.Generate(ctx, generation.Request{
		Operation: generation.OperationReport,
		Language:  req.Language,
		Text:      req.Text,
		Category:  p.category,
		Mode:      generation.Mode(req.Mode),
	})
	if err != nil {
		return nil, err
	}

	queryText := genResult.Findings.Content
	if queryText == "" {
		queryText = req.Text
	}
	// An empty retrieval result is not an error; the pathway still
	// contributes its generation output even when the catalog is down.
	codes, err := p.codes.Suggest(ctx, queryText, p.category)
	if err != nil {
		p.logger.Warn().
			Str("category", string(p.category)).
			Err(err).
			Msg("code retrieval failed, continuing without candidates")
		codes = nil
	}

	return &PathwayResult{
		Category:   p.category,
		Generation: genResult,
		Codes:      codes,
		Enhanced:   bucketFindings(genResult.Findings.Structured),
	}, nil
}

// buildPathways constructs one pathway per routable category.
func buildPathways(gen *generation.Service, codes *retrieval.Engine, logger zerolog.Logger) map[classification.Category]Pathway {
	out := make(map[classification.Category]Pathway)
	for _, cat := range classification.AllCategories() {
		out[cat] = newCategoryPathway(cat, gen, codes, logger)
	}
	return out
}
