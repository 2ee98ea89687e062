// Package retrieval ranks diagnosis-code candidates for free text using five
// independent search strategies whose scores are fused into one ranked list
// with full per-strategy provenance.
package retrieval

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/medessence/medessence/internal/domain/classification"
)

// Weights holds the per-strategy fusion weights and the result filter.
type Weights struct {
	Exact           float64
	Fuzzy           float64
	Semantic        float64
	ChapterContext  float64
	CategoryContext float64
	MinScore        float64
	MaxResults      int
}

// DefaultWeights returns the production strategy weights.
func DefaultWeights() Weights {
	return Weights{
		Exact:           1.0,
		Fuzzy:           0.8,
		Semantic:        0.6,
		ChapterContext:  0.4,
		CategoryContext: 0.3,
		MinScore:        0.3,
		MaxResults:      10,
	}
}

// Engine runs the strategies against a code repository.
type Engine struct {
	repo    CodeRepository
	weights Weights
	logger  zerolog.Logger
}

// NewEngine creates an engine over the given repository.
func NewEngine(repo CodeRepository, weights Weights, logger zerolog.Logger) *Engine {
	return &Engine{repo: repo, weights: weights, logger: logger}
}

// hit is one strategy result before fusion.
type hit struct {
	code     Code
	raw      float64
	strategy string
	weight   float64
}

var codePattern = regexp.MustCompile(`^[A-Za-z]\d{2}(\.\d{1,2})?$`)

// Suggest returns ranked candidates for the query. An empty result is
// (nil, nil), not an error.
func (e *Engine) Suggest(ctx context.Context, query string, category classification.Category) ([]CodeCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	lower := strings.ToLower(query)

	var hits []hit
	for _, run := range []func(context.Context, string, string, classification.Category) ([]hit, error){
		e.exact,
		e.fuzzy,
		e.semantic,
		e.chapterContext,
		e.categoryContext,
	} {
		strategyHits, err := run(ctx, query, lower, category)
		if err != nil {
			return nil, err
		}
		hits = append(hits, strategyHits...)
	}

	candidates := fuse(hits)
	candidates = filter(candidates, e.weights.MinScore, e.weights.MaxResults)
	annotate(candidates)

	e.logger.Debug().
		Str("category", string(category)).
		Int("candidates", len(candidates)).
		Msg("code retrieval completed")

	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates, nil
}

// ---------------------------------------------------------------------------
// Strategies
// ---------------------------------------------------------------------------

// exact matches a literal code or an exact case-insensitive description.
func (e *Engine) exact(ctx context.Context, query, lower string, _ classification.Category) ([]hit, error) {
	var hits []hit

	for _, token := range tokenize(query) {
		if !codePattern.MatchString(token) {
			continue
		}
		code, err := e.repo.GetByCode(ctx, token)
		if err != nil {
			return nil, err
		}
		if code != nil {
			hits = append(hits, hit{code: *code, raw: 1.0, strategy: StrategyExact, weight: e.weights.Exact})
		}
	}

	matches, err := e.repo.Search(ctx, query, 20)
	if err != nil {
		return nil, err
	}
	for _, c := range matches {
		if strings.EqualFold(c.Display, query) || strings.EqualFold(c.Code, query) {
			hits = append(hits, hit{code: c, raw: 1.0, strategy: StrategyExact, weight: e.weights.Exact})
		}
	}
	return hits, nil
}

// fuzzy scores every catalog entry by the best edit-distance similarity
// between query tokens and display tokens or the code itself.
func (e *Engine) fuzzy(ctx context.Context, query, lower string, _ classification.Category) ([]hit, error) {
	tokens := tokenize(lower)
	if len(tokens) == 0 {
		return nil, nil
	}

	catalog, err := e.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	const minSimilarity = 0.72
	var hits []hit
	for _, c := range catalog {
		best := 0.0
		targets := tokenize(strings.ToLower(c.Display))
		targets = append(targets, strings.ToLower(c.Code))
		for _, qt := range tokens {
			if len(qt) < 4 {
				continue
			}
			for _, tt := range targets {
				if s := similarity(qt, tt); s > best {
					best = s
				}
			}
		}
		if best >= minSimilarity {
			hits = append(hits, hit{code: c, raw: best, strategy: StrategyFuzzy, weight: e.weights.Fuzzy})
		}
	}
	return hits, nil
}

// semantic expands colloquial terms to formal catalog wording and searches
// with the expansions.
func (e *Engine) semantic(ctx context.Context, _, lower string, _ classification.Category) ([]hit, error) {
	var hits []hit
	for _, formal := range expandTerms(lower) {
		matches, err := e.repo.Search(ctx, formal, 10)
		if err != nil {
			return nil, err
		}
		for _, c := range matches {
			hits = append(hits, hit{code: c, raw: 1.0, strategy: StrategySemantic, weight: e.weights.Semantic})
		}
	}
	return hits, nil
}

// chapterContext restricts the search to chapters implied by keyword buckets
// in the query.
func (e *Engine) chapterContext(ctx context.Context, _, lower string, _ classification.Category) ([]hit, error) {
	chapters := inferChapters(lower)
	if len(chapters) == 0 {
		return nil, nil
	}
	codes, err := e.repo.ListByChapters(ctx, chapters, 50)
	if err != nil {
		return nil, err
	}
	return contextHits(codes, lower, StrategyChapterContext, e.weights.ChapterContext), nil
}

// categoryContext restricts the search to chapters historically associated
// with the examination category, independent of query keywords.
func (e *Engine) categoryContext(ctx context.Context, _, lower string, category classification.Category) ([]hit, error) {
	chapters, ok := categoryChapters[category]
	if !ok {
		return nil, nil
	}
	codes, err := e.repo.ListByChapters(ctx, chapters, 50)
	if err != nil {
		return nil, err
	}
	return contextHits(codes, lower, StrategyCategoryContext, e.weights.CategoryContext), nil
}

// contextHits scores chapter-restricted codes: full raw score when the
// display shares a term with the query, reduced otherwise.
func contextHits(codes []Code, lower, strategy string, weight float64) []hit {
	queryTokens := tokenize(lower)
	var hits []hit
	for _, c := range codes {
		raw := 0.7
		display := strings.ToLower(c.Display)
		for _, qt := range queryTokens {
			if len(qt) >= 4 && strings.Contains(display, qt) {
				raw = 1.0
				break
			}
		}
		hits = append(hits, hit{code: c, raw: raw, strategy: strategy, weight: weight})
	}
	return hits
}

// ---------------------------------------------------------------------------
// Fusion
// ---------------------------------------------------------------------------

// fuse merges strategy hits by code. The combined score is the maximum of
// raw×weight across strategies; the provenance list records every
// contributing strategy.
func fuse(hits []hit) []CodeCandidate {
	byCode := make(map[string]*CodeCandidate)
	var order []string

	for _, h := range hits {
		weighted := h.raw * h.weight
		cand, ok := byCode[h.code.Code]
		if !ok {
			cand = &CodeCandidate{
				Code:        h.code.Code,
				Description: h.code.Display,
				Chapter:     h.code.Chapter,
			}
			byCode[h.code.Code] = cand
			order = append(order, h.code.Code)
		}
		if weighted > cand.CombinedScore {
			cand.CombinedScore = weighted
		}
		cand.Strategies = appendStrategy(cand.Strategies, StrategyScore{
			Strategy: h.strategy,
			RawScore: h.raw,
			Weight:   h.weight,
		})
	}

	out := make([]CodeCandidate, 0, len(order))
	for _, code := range order {
		out = append(out, *byCode[code])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CombinedScore != out[j].CombinedScore {
			return out[i].CombinedScore > out[j].CombinedScore
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// appendStrategy keeps one provenance entry per strategy, retaining the
// higher raw score when a strategy hits the same code twice.
func appendStrategy(list []StrategyScore, s StrategyScore) []StrategyScore {
	for i, existing := range list {
		if existing.Strategy == s.Strategy {
			if s.RawScore > existing.RawScore {
				list[i] = s
			}
			return list
		}
	}
	return append(list, s)
}

func filter(candidates []CodeCandidate, minScore float64, max int) []CodeCandidate {
	out := candidates[:0]
	for _, c := range candidates {
		if c.CombinedScore >= minScore {
			out = append(out, c)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func annotate(candidates []CodeCandidate) {
	for i := range candidates {
		c := &candidates[i]
		c.ConfidenceBand = bandFor(c.CombinedScore)
		if name, ok := chapterNames[c.Chapter]; ok {
			c.ChapterNameDE = name.de
			c.ChapterNameEN = name.en
		}
		c.FollowUps = chapterFollowUps[c.Chapter]
	}
}

// ---------------------------------------------------------------------------
// Text helpers
// ---------------------------------------------------------------------------

var tokenPattern = regexp.MustCompile(`[\p{L}\d][\p{L}\d.-]*`)

func tokenize(s string) []string {
	return tokenPattern.FindAllString(s, -1)
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func containsTerm(s, term string) bool {
	return strings.Contains(s, term)
}

func containsAnyTerm(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
