package generation

import "github.com/medessence/medessence/internal/domain/classification"

// Operation names the kind of text the caller wants produced.
type Operation string

const (
	OperationReport     Operation = "report"
	OperationSummary    Operation = "summary"
	OperationImpression Operation = "impression"
)

// Mode selects networked backends or the locally hosted model.
type Mode string

const (
	ModeCloud Mode = "cloud"
	ModeLocal Mode = "local"
)

// Request is one generation call.
type Request struct {
	Operation Operation               `json:"operation"`
	Language  string                  `json:"language"`
	Text      string                  `json:"text"`
	Category  classification.Category `json:"category"`
	Mode      Mode                    `json:"mode"`
}

// Significance levels for structured findings.
type Significance string

const (
	SignificanceGeneral     Significance = "general"
	SignificanceSignificant Significance = "significant"
	SignificanceCritical    Significance = "critical"
)

// SourceSpan locates a finding within the text it was extracted from.
type SourceSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StructuredFinding is one extracted clinical statement.
type StructuredFinding struct {
	Text         string       `json:"text"`
	Significance Significance `json:"significance"`
	SourceSpan   SourceSpan   `json:"sourceSpan"`
	Category     string       `json:"category,omitempty"`
}

// Findings carries the findings section plus its structured form.
type Findings struct {
	Content    string              `json:"content"`
	Structured []StructuredFinding `json:"structuredFindings,omitempty"`
}

// Result is the structured outcome of one generation call.
type Result struct {
	TechnicalDetails string   `json:"technicalDetails,omitempty"`
	Findings         Findings `json:"findings"`
	Impression       string   `json:"impression,omitempty"`
	Recommendations  string   `json:"recommendations,omitempty"`
	Provider         string   `json:"providerUsed"`
	ParseFellBack    bool     `json:"parseFellBack"`
	LatencyMs        int64    `json:"latencyMs"`
	CacheHit         bool     `json:"cacheHit"`
}
