// Package orchestration is the entry point of the decision engine. It
// consumes the classifier's output to choose between single-category dispatch
// and a concurrent multi-category ensemble, invokes the generation pathways
// and merges their results.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/medessence/medessence/internal/domain/classification"
	"github.com/medessence/medessence/internal/domain/generation"
	"github.com/medessence/medessence/internal/domain/retrieval"
	"github.com/medessence/medessence/internal/platform/telemetry"
)

// Config wires the orchestrator.
type Config struct {
	Classifier          *classification.Classifier
	Generation          *generation.Service
	Retrieval           *retrieval.Engine
	ConfidenceThreshold float64
	EnsembleSize        int
	Logger              zerolog.Logger
	Telemetry           *telemetry.Telemetry
}

// Orchestrator gates dispatch on classification confidence.
type Orchestrator struct {
	classifier *classification.Classifier
	pathways   map[classification.Category]Pathway
	threshold  float64
	ensemble   int
	logger     zerolog.Logger
	tel        *telemetry.Telemetry
}

// New creates an orchestrator with one pathway per category.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		classifier: cfg.Classifier,
		pathways:   buildPathways(cfg.Generation, cfg.Retrieval, cfg.Logger),
		threshold:  cfg.ConfidenceThreshold,
		ensemble:   cfg.EnsembleSize,
		logger:     cfg.Logger,
		tel:        cfg.Telemetry,
	}
}

// Classify exposes the classifier for the classification endpoint.
func (o *Orchestrator) Classify(text string) classification.Classification {
	return o.classifier.Classify(text)
}

// Process runs the full pipeline for one report text. High classification
// confidence dispatches the single top-category pathway; low confidence fans
// out to the top candidates concurrently and merges the survivors. An error
// in orchestration logic itself falls back to the general pathway so the
// caller always receives some result.
func (o *Orchestrator) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if req.Language == "" {
		req.Language = "de"
	}

	cls := o.classifier.Classify(req.Text)
	o.logger.Info().
		Str("category", string(cls.Category)).
		Float64("confidence", cls.Confidence).
		Msg("report classified")
	o.count("orchestrations_total", map[string]string{"category": string(cls.Category)})

	var (
		result *ProcessResult
		err    error
	)
	if cls.Confidence >= o.threshold {
		result, err = o.dispatchSingle(ctx, req, cls.Category)
	} else {
		result, err = o.dispatchEnsemble(ctx, req, cls)
	}

	if err != nil {
		if errors.Is(err, ErrOrchestration) {
			o.logger.Error().Err(err).Msg("orchestration error, falling back to general pathway")
			result, err = o.dispatchSingle(ctx, req, classification.CategoryGeneral)
		}
		if err != nil {
			return nil, err
		}
	}

	result.Classification = cls
	return result, nil
}

// dispatchSingle runs exactly one pathway.
func (o *Orchestrator) dispatchSingle(ctx context.Context, req ProcessRequest, category classification.Category) (*ProcessResult, error) {
	pathway, ok := o.pathways[category]
	if !ok {
		return nil, fmt.Errorf("%w: no pathway for category %s", ErrOrchestration, category)
	}
	r, err := pathway.Process(ctx, req)
	if err != nil {
		return nil, err
	}
	return single(r), nil
}

// dispatchEnsemble fans out to the top candidate pathways concurrently and
// waits for all of them to settle. A failed pathway contributes nothing but
// does not abort the others; results are merged in candidate-rank order so
// the outcome does not depend on settle order.
func (o *Orchestrator) dispatchEnsemble(ctx context.Context, req ProcessRequest, cls classification.Classification) (*ProcessResult, error) {
	candidates := cls.Top(o.ensemble)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: classifier produced no candidates", ErrOrchestration)
	}

	results := make([]*PathwayResult, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, cand := range candidates {
		pathway, ok := o.pathways[cand.Category]
		if !ok {
			errs[i] = fmt.Errorf("no pathway for category %s", cand.Category)
			continue
		}
		i, pathway := i, pathway
		g.Go(func() error {
			r, err := pathway.Process(gctx, req)
			if err != nil {
				// Recorded per slot; never cancels the siblings.
				errs[i] = err
				return nil
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrchestration, err)
	}

	succeeded := 0
	for _, r := range results {
		if r != nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		// Every pathway failed individually; surface the first failure so
		// exhaustion remains identifiable to the caller.
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return nil, fmt.Errorf("%w: ensemble produced no results", ErrOrchestration)
	}

	for i, err := range errs {
		if err != nil {
			o.logger.Warn().
				Str("category", string(candidates[i].Category)).
				Err(err).
				Msg("ensemble pathway failed")
		}
	}
	o.count("ensemble_dispatches_total", nil)

	return merge(results), nil
}

func (o *Orchestrator) count(metric string, labels map[string]string) {
	if o.tel != nil {
		o.tel.Count(metric, labels)
	}
}
