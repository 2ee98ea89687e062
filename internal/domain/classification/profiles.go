package classification

import "regexp"

// profile describes the scoring signals for one category. Keywords are broad
// German/English terms, patterns are modality-specific regular expressions and
// vocabulary holds terms unlikely to appear outside the category.
type profile struct {
	keywords   []string
	patterns   []*regexp.Regexp
	vocabulary []string
	prior      float64
}

var profiles = map[Category]profile{
	CategoryMammography: {
		keywords: []string{"mammographie", "mammografie", "mamma", "brust", "breast", "mammogram"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)bi-?rads\s*[0-6]`),
			regexp.MustCompile(`(?i)acr\s*[a-d]\b`),
		},
		vocabulary: []string{"birads", "mikrokalk", "herdbefund", "mastopathie", "tomosynthese", "drüsengewebe", "mammographie-screening"},
		prior:      1.2,
	},
	CategorySpineMRI: {
		keywords: []string{"wirbelsäule", "bandscheibe", "spine", "lumbal", "zervikal", "thorakal"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(lws|bws|hws)\b`),
			regexp.MustCompile(`(?i)\b[lc][1-7]\s*/\s*[lcs][1-7]\b`),
		},
		vocabulary: []string{"bandscheibenvorfall", "spinalkanalstenose", "neuroforamen", "protrusion", "myelon", "osteochondrose"},
		prior:      1.1,
	},
	CategoryCT: {
		keywords: []string{"computertomographie", "computertomografie", "ct-untersuchung", "ct thorax", "ct abdomen"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bct\b`),
			regexp.MustCompile(`(?i)(nativ|arterielle|venöse)\s*phase`),
		},
		vocabulary: []string{"hounsfield", "kontrastmittelgabe", "dichtewerte", "multislice", "spirale"},
		prior:      1.15,
	},
	CategoryMRI: {
		keywords: []string{"magnetresonanz", "kernspintomographie", "kernspin", "mri"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmrt?\b`),
			regexp.MustCompile(`(?i)\bt[12]w?\b`),
		},
		vocabulary: []string{"flair", "diffusionswichtung", "gadolinium", "kontrastmittelaufnahme", "signalalteration", "gradientenecho"},
		prior:      1.15,
	},
	CategoryUltrasound: {
		keywords: []string{"sonographie", "sonografie", "ultraschall", "ultrasound", "doppler"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bsono\b`),
			regexp.MustCompile(`(?i)\bmhz\b`),
		},
		vocabulary: []string{"echogenität", "echoarm", "echoreich", "schallschatten", "duplexsonographie", "schallkopf"},
		prior:      1.1,
	},
	CategoryXRay: {
		keywords: []string{"röntgen", "radiographie", "x-ray", "thoraxaufnahme"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)in\s+(zwei|2)\s+ebenen`),
			regexp.MustCompile(`(?i)\bp\.?a\.?\s+(und|/)\s+seitlich`),
		},
		vocabulary: []string{"verschattung", "transparenzminderung", "aufhellung", "zwerchfellkuppe", "randwinkel"},
		prior:      1.2,
	},
	CategoryPathology: {
		keywords: []string{"histologie", "biopsie", "pathologie", "zytologie", "stanzbiopsie"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)ki-?67`),
			regexp.MustCompile(`(?i)\bg[1-3]\b`),
		},
		vocabulary: []string{"immunhistochemie", "resektionsrand", "grading", "mitosen", "invasionsfront"},
		prior:      0.9,
	},
	CategoryCardiac: {
		keywords: []string{"herz", "kardial", "echokardiographie", "ekg", "koronar"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\blv-?ef\b`),
			regexp.MustCompile(`(?i)ejektionsfraktion\s*\d+\s*%`),
		},
		vocabulary: []string{"ejektionsfraktion", "linksventrikulär", "mitralklappe", "perikarderguss", "wandbewegungsstörung"},
		prior:      0.95,
	},
	CategoryOncology: {
		keywords: []string{"tumor", "onkologie", "metastase", "malignom", "karzinom"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bp?t[0-4][a-c]?\s*n[0-3]\s*m[01]\b`),
			regexp.MustCompile(`(?i)\buicc\b`),
		},
		vocabulary: []string{"staging", "tumorprogress", "chemotherapie", "remission", "lymphknotenmetastasen"},
		prior:      0.9,
	},
	CategoryGeneral: {
		keywords:   []string{"befund", "untersuchung", "beurteilung"},
		vocabulary: nil,
		prior:      1.0,
	},
}

// overlapRule resolves a known ambiguity between two categories. When both
// score above the minimum and the text carries one of the dominant category's
// markers without any counter marker, the dominant score is boosted.
type overlapRule struct {
	dominant       Category
	contested      Category
	markers        []string
	counterMarkers []string
}

var overlapRules = []overlapRule{
	{
		// Mammography reports frequently mention complementary ultrasound.
		dominant:       CategoryMammography,
		contested:      CategoryUltrasound,
		markers:        []string{"birads", "bi-rads", "mammographie", "mammografie", "mikrokalk"},
		counterMarkers: []string{"schallkopf", "duplexsonographie", "mhz"},
	},
	{
		// Spine MRI is a specialization of MRI; spine-level markers win.
		dominant:       CategorySpineMRI,
		contested:      CategoryMRI,
		markers:        []string{"lws", "bws", "hws", "bandscheibe", "wirbelsäule"},
		counterMarkers: []string{"schädel", "zerebral", "kranial"},
	},
	{
		// Contrast-phase wording belongs to CT even when MRT is referenced
		// as a prior examination.
		dominant:       CategoryCT,
		contested:      CategoryMRI,
		markers:        []string{"hounsfield", "nativ", "dichtewerte"},
		counterMarkers: []string{"t1", "t2", "flair", "gadolinium"},
	},
}
