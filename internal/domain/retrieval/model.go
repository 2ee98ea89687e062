package retrieval

// Code is one catalog entry of the diagnosis code system (ICD-10-GM).
type Code struct {
	Code    string `json:"code"`
	Display string `json:"display"`
	Chapter string `json:"chapter"`
}

// Strategy names, also used as provenance labels on candidates.
const (
	StrategyExact           = "exact"
	StrategyFuzzy           = "fuzzy"
	StrategySemantic        = "semantic"
	StrategyChapterContext  = "chapter_context"
	StrategyCategoryContext = "category_context"
)

// StrategyScore records one strategy's contribution to a candidate.
type StrategyScore struct {
	Strategy string  `json:"strategy"`
	RawScore float64 `json:"rawScore"`
	Weight   float64 `json:"weight"`
}

// Confidence bands by fused score.
const (
	BandHigh    = "high"
	BandMedium  = "medium"
	BandLow     = "low"
	BandVeryLow = "very-low"
)

// CodeCandidate is one ranked suggestion with full provenance.
type CodeCandidate struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Chapter        string          `json:"chapter"`
	CombinedScore  float64         `json:"combinedScore"`
	Strategies     []StrategyScore `json:"contributingStrategies"`
	ConfidenceBand string          `json:"confidenceBand"`
	ChapterNameDE  string          `json:"chapterNameDe"`
	ChapterNameEN  string          `json:"chapterNameEn"`
	FollowUps      []string        `json:"followUps,omitempty"`
}

func bandFor(score float64) string {
	switch {
	case score >= 0.8:
		return BandHigh
	case score >= 0.6:
		return BandMedium
	case score >= 0.4:
		return BandLow
	default:
		return BandVeryLow
	}
}
