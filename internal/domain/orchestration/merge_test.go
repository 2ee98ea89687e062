package orchestration

import (
	"reflect"
	"testing"

	"github.com/medessence/medessence/internal/domain/classification"
	"github.com/medessence/medessence/internal/domain/generation"
	"github.com/medessence/medessence/internal/domain/retrieval"
)

func TestMerge_DeduplicatesFindingsContent(t *testing.T) {
	a := pathwayResult(classification.CategoryCT, "Gleicher Befund.", "")
	b := pathwayResult(classification.CategoryMRI, "Gleicher Befund.", "")
	c := pathwayResult(classification.CategoryGeneral, "Anderer Befund.", "")

	out := merge([]*PathwayResult{a, b, c})
	if out.Findings.Content != "Gleicher Befund.\n\nAnderer Befund." {
		t.Errorf("unexpected merged content: %q", out.Findings.Content)
	}
}

func TestMerge_LastNonEmptyImpressionWins(t *testing.T) {
	a := pathwayResult(classification.CategoryCT, "a", "Erste Beurteilung.")
	b := pathwayResult(classification.CategoryMRI, "b", "")
	c := pathwayResult(classification.CategoryGeneral, "c", "Letzte Beurteilung.")
	a.Generation.Recommendations = "Erste Empfehlung."

	out := merge([]*PathwayResult{a, b, c})
	if out.Impression != "Letzte Beurteilung." {
		t.Errorf("expected last non-empty impression, got %q", out.Impression)
	}
	if out.Recommendations != "Erste Empfehlung." {
		t.Errorf("expected the only recommendation to survive, got %q", out.Recommendations)
	}
}

func TestMerge_FirstNonNilPayloadsWin(t *testing.T) {
	a := pathwayResult(classification.CategoryCT, "a", "")
	b := pathwayResult(classification.CategoryMRI, "b", "")
	b.Codes = []retrieval.CodeCandidate{{Code: "R91"}}
	b.Enhanced = &EnhancedFindings{}
	c := pathwayResult(classification.CategoryGeneral, "c", "")
	c.Codes = []retrieval.CodeCandidate{{Code: "Z08.9"}}

	out := merge([]*PathwayResult{a, b, c})
	if len(out.CodeCandidates) != 1 || out.CodeCandidates[0].Code != "R91" {
		t.Errorf("expected first non-nil codes payload, got %v", out.CodeCandidates)
	}
	if out.EnhancedFindings != b.Enhanced {
		t.Error("expected first non-nil enhanced findings payload")
	}
}

func TestMerge_SkipsNilSlots(t *testing.T) {
	a := pathwayResult(classification.CategoryCT, "Befund.", "")
	out := merge([]*PathwayResult{nil, a, nil})
	want := []classification.Category{classification.CategoryCT}
	if !reflect.DeepEqual(out.ContributingCategories, want) {
		t.Errorf("contributing categories = %v", out.ContributingCategories)
	}
}

func TestBucketFindings(t *testing.T) {
	findings := []generation.StructuredFinding{
		{Text: "a", Significance: generation.SignificanceCritical},
		{Text: "b", Significance: generation.SignificanceGeneral},
		{Text: "c", Significance: generation.SignificanceSignificant},
		{Text: "d", Significance: generation.SignificanceCritical},
	}
	out := bucketFindings(findings)
	if len(out.Critical) != 2 || len(out.Significant) != 1 || len(out.General) != 1 {
		t.Errorf("unexpected buckets: %+v", out)
	}
	if bucketFindings(nil) != nil {
		t.Error("empty input should bucket to nil")
	}
}
