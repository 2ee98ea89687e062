// Package classification scores free-text clinical reports against a fixed
// set of examination categories using weighted keyword, pattern and
// vocabulary signals plus per-category frequency priors.
package classification

import (
	"sort"
	"strings"
)

// Config holds the scoring weights. Vocabulary terms weigh highest because
// they are the least likely to occur by coincidence.
type Config struct {
	KeywordWeight   float64
	PatternWeight   float64
	VocabWeight     float64
	OverlapBoost    float64
	MinOverlapScore float64
}

// DefaultConfig returns the tuned production weights.
func DefaultConfig() Config {
	return Config{
		KeywordWeight:   1.0,
		PatternWeight:   2.0,
		VocabWeight:     3.0,
		OverlapBoost:    1.5,
		MinOverlapScore: 0.15,
	}
}

// Classifier is a pure function of its configuration; Classify has no side
// effects and is safe for concurrent use.
type Classifier struct {
	cfg Config
}

// New creates a classifier with the given weights.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify scores the text against every category and returns the ranked
// candidates with a confidence derived from the top-two score ratio.
func (c *Classifier) Classify(text string) Classification {
	lower := strings.ToLower(text)

	raw := make(map[Category]float64, len(profiles))
	for cat, p := range profiles {
		score := c.scoreProfile(lower, text, p)
		if score > 0 {
			raw[cat] = score * p.prior
		}
	}

	if len(raw) == 0 {
		return Classification{
			Category:   CategoryGeneral,
			Confidence: 0,
			Candidates: []CandidateScore{{Category: CategoryGeneral, Score: 0}},
		}
	}

	c.applyOverlapRules(lower, raw)

	candidates := normalize(raw)

	top := candidates[0]
	confidence := 1.0
	if len(candidates) > 1 {
		second := candidates[1]
		base := top.Score / (top.Score + second.Score)
		gap := top.Score - second.Score
		confidence = base + (1-base)*gap
	}
	if confidence > 1 {
		confidence = 1
	}

	return Classification{
		Category:   top.Category,
		Confidence: confidence,
		Candidates: candidates,
	}
}

func (c *Classifier) scoreProfile(lower, original string, p profile) float64 {
	var score float64
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			score += c.cfg.KeywordWeight
		}
	}
	for _, re := range p.patterns {
		if re.MatchString(original) {
			score += c.cfg.PatternWeight
		}
	}
	for _, term := range p.vocabulary {
		if strings.Contains(lower, term) {
			score += c.cfg.VocabWeight
		}
	}
	return score
}

// applyOverlapRules boosts the dominant category of a known ambiguous pair
// when its distinctive markers appear without counter markers.
func (c *Classifier) applyOverlapRules(lower string, raw map[Category]float64) {
	total := 0.0
	for _, v := range raw {
		total += v
	}
	if total == 0 {
		return
	}

	for _, rule := range overlapRules {
		dom, okDom := raw[rule.dominant]
		con, okCon := raw[rule.contested]
		if !okDom || !okCon {
			continue
		}
		if dom/total < c.cfg.MinOverlapScore || con/total < c.cfg.MinOverlapScore {
			continue
		}
		if !containsAny(lower, rule.markers) || containsAny(lower, rule.counterMarkers) {
			continue
		}
		raw[rule.dominant] = dom * c.cfg.OverlapBoost
	}
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// normalize converts raw scores to shares summing to one and sorts them
// descending, breaking ties by category name for determinism.
func normalize(raw map[Category]float64) []CandidateScore {
	total := 0.0
	for _, v := range raw {
		total += v
	}

	candidates := make([]CandidateScore, 0, len(raw))
	for cat, v := range raw {
		candidates = append(candidates, CandidateScore{Category: cat, Score: v / total})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Category < candidates[j].Category
	})
	return candidates
}
