package retrieval

// synonyms maps colloquial or clinical shorthand to the formal catalog
// wording. The semantic strategy expands query terms through this table
// before re-running a text search.
var synonyms = map[string][]string{
	"brustkrebs":          {"bösartige neubildung der brustdrüse", "mamma"},
	"mammakarzinom":       {"bösartige neubildung der brustdrüse"},
	"knoten":              {"knoten in der mamma", "neubildung"},
	"screening":           {"spezielles screening", "mammographie-screening"},
	"vorsorge":            {"spezielles screening"},
	"früherkennung":       {"spezielles screening"},
	"herzinfarkt":         {"myokardinfarkt"},
	"herzschwäche":        {"herzinsuffizienz"},
	"bluthochdruck":       {"hypertonie"},
	"lungenentzündung":    {"pneumonie"},
	"wasser in der lunge": {"pleuraerguss"},
	"raucherlunge":        {"chronische obstruktive lungenkrankheit"},
	"bandscheibenvorfall": {"bandscheibenverlagerung", "bandscheibenschäden"},
	"hexenschuss":         {"kreuzschmerz"},
	"rückenschmerzen":     {"kreuzschmerz"},
	"knochenschwund":      {"osteoporose"},
	"gallensteine":        {"gallenblasenstein"},
	"nierensteine":        {"nierenstein"},
	"bruch":               {"fraktur"},
	"knochenbruch":        {"fraktur"},
	"metastasen":          {"sekundäre bösartige neubildung"},
	"tumor":               {"neubildung"},
	"lungenkrebs":         {"bösartige neubildung der lunge"},
	"prostatakrebs":       {"bösartige neubildung der prostata"},
	"mastopathie":         {"zystische mastopathie"},
	"brustschmerzen":      {"mastodynie"},
	"zyste":               {"zystische"},
}

// expandTerms returns the formal equivalents for every query term present in
// the synonym table. The match is substring-based so multi-word colloquial
// phrases are caught inside longer queries.
func expandTerms(lowerQuery string) []string {
	var out []string
	seen := make(map[string]bool)
	for colloquial, formals := range synonyms {
		if !containsTerm(lowerQuery, colloquial) {
			continue
		}
		for _, f := range formals {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}
