package orchestration

import (
	"strings"

	"github.com/medessence/medessence/internal/domain/classification"
)

// merge combines successful pathway results in candidate-rank order, so the
// outcome is independent of the order in which concurrent calls settled:
// findings content is concatenated with identical text deduplicated, the last
// non-empty impression and recommendations win, the first non-nil code and
// enhanced-findings payloads win, and every contributing category is
// recorded.
func merge(results []*PathwayResult) *ProcessResult {
	out := &ProcessResult{Ensemble: true}

	var contentParts []string
	seenContent := make(map[string]bool)
	seenFindings := make(map[string]bool)

	for _, r := range results {
		if r == nil {
			continue
		}
		gen := r.Generation

		if c := strings.TrimSpace(gen.Findings.Content); c != "" && !seenContent[c] {
			seenContent[c] = true
			contentParts = append(contentParts, c)
		}
		for _, f := range gen.Findings.Structured {
			if seenFindings[f.Text] {
				continue
			}
			seenFindings[f.Text] = true
			out.Findings.Structured = append(out.Findings.Structured, f)
		}

		if gen.TechnicalDetails != "" {
			out.TechnicalDetails = gen.TechnicalDetails
		}
		if gen.Impression != "" {
			out.Impression = gen.Impression
		}
		if gen.Recommendations != "" {
			out.Recommendations = gen.Recommendations
		}
		if out.CodeCandidates == nil && r.Codes != nil {
			out.CodeCandidates = r.Codes
		}
		if out.EnhancedFindings == nil && r.Enhanced != nil {
			out.EnhancedFindings = r.Enhanced
		}
		if out.Provider == "" {
			out.Provider = gen.Provider
		}
		if gen.ParseFellBack {
			out.ParseFellBack = true
		}
		out.ContributingCategories = append(out.ContributingCategories, r.Category)
	}

	out.Findings.Content = strings.Join(contentParts, "\n\n")
	return out
}

// single converts one pathway result into the final shape.
func single(r *PathwayResult) *ProcessResult {
	return &ProcessResult{
		TechnicalDetails:       r.Generation.TechnicalDetails,
		Findings:               r.Generation.Findings,
		Impression:             r.Generation.Impression,
		Recommendations:        r.Generation.Recommendations,
		EnhancedFindings:       r.Enhanced,
		CodeCandidates:         r.Codes,
		ContributingCategories: []classification.Category{r.Category},
		Provider:               r.Generation.Provider,
		ParseFellBack:          r.Generation.ParseFellBack,
	}
}
