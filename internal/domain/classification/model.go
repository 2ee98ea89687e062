package classification

// Category is the examination category a report is routed under.
type Category string

const (
	CategoryMammography Category = "mammography"
	CategorySpineMRI    Category = "spine_mri"
	CategoryCT          Category = "ct"
	CategoryMRI         Category = "mri"
	CategoryUltrasound  Category = "ultrasound"
	CategoryXRay        Category = "xray"
	CategoryPathology   Category = "pathology"
	CategoryCardiac     Category = "cardiac"
	CategoryOncology    Category = "oncology"
	CategoryGeneral     Category = "general"
)

// AllCategories lists every routable category, general last.
func AllCategories() []Category {
	return []Category{
		CategoryMammography,
		CategorySpineMRI,
		CategoryCT,
		CategoryMRI,
		CategoryUltrasound,
		CategoryXRay,
		CategoryPathology,
		CategoryCardiac,
		CategoryOncology,
		CategoryGeneral,
	}
}

// CandidateScore is one ranked candidate category.
type CandidateScore struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// Classification is the result of classifying one report text.
type Classification struct {
	Category   Category         `json:"category"`
	Confidence float64          `json:"confidence"`
	Candidates []CandidateScore `json:"candidates"`
}

// Top returns up to n leading candidates.
func (c Classification) Top(n int) []CandidateScore {
	if n > len(c.Candidates) {
		n = len(c.Candidates)
	}
	return c.Candidates[:n]
}
