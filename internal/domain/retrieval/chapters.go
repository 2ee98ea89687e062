package retrieval

import "github.com/medessence/medessence/internal/domain/classification"

// chapterName holds the bilingual human-readable chapter title.
type chapterName struct {
	de string
	en string
}

var chapterNames = map[string]chapterName{
	"I":     {de: "Bestimmte infektiöse und parasitäre Krankheiten", en: "Certain infectious and parasitic diseases"},
	"II":    {de: "Neubildungen", en: "Neoplasms"},
	"VI":    {de: "Krankheiten des Nervensystems", en: "Diseases of the nervous system"},
	"IX":    {de: "Krankheiten des Kreislaufsystems", en: "Diseases of the circulatory system"},
	"X":     {de: "Krankheiten des Atmungssystems", en: "Diseases of the respiratory system"},
	"XI":    {de: "Krankheiten des Verdauungssystems", en: "Diseases of the digestive system"},
	"XIII":  {de: "Krankheiten des Muskel-Skelett-Systems und des Bindegewebes", en: "Diseases of the musculoskeletal system and connective tissue"},
	"XIV":   {de: "Krankheiten des Urogenitalsystems", en: "Diseases of the genitourinary system"},
	"XVIII": {de: "Symptome und abnorme klinische und Laborbefunde", en: "Symptoms, signs and abnormal clinical and laboratory findings"},
	"XIX":   {de: "Verletzungen und Vergiftungen", en: "Injury, poisoning and certain other consequences of external causes"},
	"XXI":   {de: "Faktoren, die den Gesundheitszustand beeinflussen", en: "Factors influencing health status and contact with health services"},
}

// chapterFollowUps lists generic clinical follow-up suggestions per chapter.
var chapterFollowUps = map[string][]string{
	"II":    {"Staging-Untersuchung erwägen", "Vorstellung im Tumorboard", "Histologische Sicherung"},
	"VI":    {"Neurologische Verlaufskontrolle", "Elektrophysiologische Abklärung erwägen"},
	"IX":    {"Kardiologische Vorstellung", "Echokardiographische Verlaufskontrolle"},
	"X":     {"Radiologische Verlaufskontrolle", "Lungenfunktionsprüfung erwägen"},
	"XI":    {"Gastroenterologische Abklärung", "Sonographische Verlaufskontrolle"},
	"XIII":  {"Orthopädische Vorstellung", "Physiotherapie erwägen", "Verlaufskontrolle bei Beschwerdepersistenz"},
	"XIV":   {"Urologische bzw. gynäkologische Abklärung", "Sonographische Verlaufskontrolle"},
	"XVIII": {"Weiterführende bildgebende Abklärung", "Klinische Korrelation empfohlen"},
	"XIX":   {"Röntgenkontrolle nach Konsolidierung", "Unfallchirurgische Vorstellung"},
	"XXI":   {"Teilnahme am Früherkennungsprogramm fortsetzen", "Kontrolle im regulären Intervall"},
}

// keywordChapterBuckets maps query keyword groups to the chapters they imply.
// The chapter-context strategy restricts its search to the union of matched
// buckets.
var keywordChapterBuckets = []struct {
	terms    []string
	chapters []string
}{
	{terms: []string{"tumor", "karzinom", "malignom", "metastase", "neoplasie", "krebs", "neubildung"}, chapters: []string{"II"}},
	{terms: []string{"screening", "vorsorge", "früherkennung", "nachsorge", "anamnese"}, chapters: []string{"XXI"}},
	{terms: []string{"mamma", "brust", "mammographie", "mammografie", "birads", "mastopathie"}, chapters: []string{"XIV", "II", "XXI"}},
	{terms: []string{"wirbelsäule", "bandscheibe", "lws", "bws", "hws", "lumbal", "spinalkanal"}, chapters: []string{"XIII", "VI"}},
	{terms: []string{"herz", "kardial", "koronar", "myokard", "klappe"}, chapters: []string{"IX"}},
	{terms: []string{"lunge", "pulmonal", "thorax", "pleura", "pneumonie"}, chapters: []string{"X"}},
	{terms: []string{"abdomen", "leber", "galle", "niere", "darm"}, chapters: []string{"XI", "XIV"}},
	{terms: []string{"fraktur", "trauma", "sturz", "verletzung"}, chapters: []string{"XIX"}},
	{terms: []string{"nerv", "radikulopathie", "neuroforamen"}, chapters: []string{"VI"}},
	{terms: []string{"befund", "auffällig", "unklar"}, chapters: []string{"XVIII"}},
}

// categoryChapters maps examination categories to the chapters historically
// associated with them, independent of query keywords.
var categoryChapters = map[classification.Category][]string{
	classification.CategoryMammography: {"XIV", "II", "XXI", "XVIII"},
	classification.CategorySpineMRI:    {"XIII", "VI", "XIX"},
	classification.CategoryCT:          {"II", "X", "XI", "XVIII"},
	classification.CategoryMRI:         {"VI", "XIII", "II"},
	classification.CategoryUltrasound:  {"XI", "XIV", "XVIII"},
	classification.CategoryXRay:        {"XIX", "XIII", "X"},
	classification.CategoryPathology:   {"II"},
	classification.CategoryCardiac:     {"IX"},
	classification.CategoryOncology:    {"II", "XXI"},
	classification.CategoryGeneral:     {"XVIII"},
}

// inferChapters resolves the chapter set implied by the query keywords.
func inferChapters(lowerQuery string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, bucket := range keywordChapterBuckets {
		if !containsAnyTerm(lowerQuery, bucket.terms) {
			continue
		}
		for _, ch := range bucket.chapters {
			if !seen[ch] {
				seen[ch] = true
				out = append(out, ch)
			}
		}
	}
	return out
}
