package orchestration

import (
	"github.com/medessence/medessence/internal/domain/classification"
	"github.com/medessence/medessence/internal/domain/generation"
	"github.com/medessence/medessence/internal/domain/retrieval"
)

// Metadata carries optional hints delivered by the upstream transcription
// collaborator.
type Metadata struct {
	ExaminationHint string `json:"examinationHint,omitempty"`
	PatientContext  string `json:"patientContext,omitempty"`
}

// ProcessRequest is the core input contract.
type ProcessRequest struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Mode     string    `json:"mode,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// EnhancedFindings re-buckets structured findings by clinical significance
// for display.
type EnhancedFindings struct {
	Critical    []generation.StructuredFinding `json:"critical,omitempty"`
	Significant []generation.StructuredFinding `json:"significant,omitempty"`
	General     []generation.StructuredFinding `json:"general,omitempty"`
}

// ProcessResult is the core output contract: the merged final result plus a
// provenance trail of what contributed.
type ProcessResult struct {
	Classification         classification.Classification `json:"classification"`
	TechnicalDetails       string                        `json:"technicalDetails,omitempty"`
	Findings               generation.Findings           `json:"findings"`
	Impression             string                        `json:"impression,omitempty"`
	Recommendations        string                        `json:"recommendations,omitempty"`
	EnhancedFindings       *EnhancedFindings             `json:"enhancedFindings,omitempty"`
	CodeCandidates         []retrieval.CodeCandidate     `json:"codeCandidates,omitempty"`
	ContributingCategories []classification.Category     `json:"contributingCategories"`
	Provider               string                        `json:"providerUsed,omitempty"`
	ParseFellBack          bool                          `json:"parseFellBack"`
	Ensemble               bool                          `json:"ensemble"`
}

// bucketFindings groups structured findings by significance. Returns nil when
// there is nothing to bucket.
func bucketFindings(findings []generation.StructuredFinding) *EnhancedFindings {
	if len(findings) == 0 {
		return nil
	}
	out := &EnhancedFindings{}
	for _, f := range findings {
		switch f.Significance {
		case generation.SignificanceCritical:
			out.Critical = append(out.Critical, f)
		case generation.SignificanceSignificant:
			out.Significant = append(out.Significant, f)
		default:
			out.General = append(out.General, f)
		}
	}
	return out
}
