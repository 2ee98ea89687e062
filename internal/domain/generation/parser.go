package generation

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// parseResponse turns raw backend output into a Result. It tries structured
// JSON extraction first; failing that, it splits on recognized clinical
// section headers; failing that, it synthesizes structured findings from
// sentence-like units. The returned flag is true whenever the heuristic path
// was taken. Parsing is deterministic: identical input yields an identical
// result. The raw text is always preserved somewhere in the result, so
// findings and impression are never both empty.
func parseResponse(raw string) (Result, bool) {
	if res, ok := parseStructured(raw); ok {
		return res, false
	}
	if res, ok := parseSections(raw); ok {
		return res, true
	}
	return synthesize(raw), true
}

// ---------------------------------------------------------------------------
// Stage 1: structured JSON
// ---------------------------------------------------------------------------

type wireResult struct {
	TechnicalDetails string `json:"technicalDetails"`
	Findings         struct {
		Content    string `json:"content"`
		Structured []struct {
			Text         string `json:"text"`
			Significance string `json:"significance"`
			SourceSpan   struct {
				Start int `json:"start"`
				End   int `json:"end"`
			} `json:"sourceSpan"`
			Category string `json:"category"`
		} `json:"structuredFindings"`
	} `json:"findings"`
	Impression      string `json:"impression"`
	Recommendations string `json:"recommendations"`
}

// parseStructured extracts the first JSON object embedded in the output.
func parseStructured(raw string) (Result, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Result{}, false
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &wire); err != nil {
		return Result{}, false
	}
	if wire.Findings.Content == "" && wire.Impression == "" {
		return Result{}, false
	}

	res := Result{
		TechnicalDetails: wire.TechnicalDetails,
		Findings:         Findings{Content: wire.Findings.Content},
		Impression:       wire.Impression,
		Recommendations:  wire.Recommendations,
	}
	for _, f := range wire.Findings.Structured {
		sig := Significance(f.Significance)
		switch sig {
		case SignificanceGeneral, SignificanceSignificant, SignificanceCritical:
		default:
			sig = SignificanceGeneral
		}
		res.Findings.Structured = append(res.Findings.Structured, StructuredFinding{
			Text:         f.Text,
			Significance: sig,
			SourceSpan:   SourceSpan{Start: f.SourceSpan.Start, End: f.SourceSpan.End},
			Category:     f.Category,
		})
	}
	return res, true
}

// ---------------------------------------------------------------------------
// Stage 2: section headers
// ---------------------------------------------------------------------------

type sectionKind int

const (
	sectionTechnical sectionKind = iota
	sectionFindings
	sectionImpression
	sectionRecommendations
)

// sectionHeaders maps German and English clinical section markers.
var sectionHeaders = []struct {
	pattern *regexp.Regexp
	kind    sectionKind
}{
	{regexp.MustCompile(`(?i)^\s*(technik|technique|methodik|untersuchungstechnik)\s*:?\s*$`), sectionTechnical},
	{regexp.MustCompile(`(?i)^\s*(befund|befunde|findings?)\s*:?\s*$`), sectionFindings},
	{regexp.MustCompile(`(?i)^\s*(beurteilung|impression|zusammenfassung|assessment)\s*:?\s*$`), sectionImpression},
	{regexp.MustCompile(`(?i)^\s*(empfehlung|empfehlungen|recommendations?)\s*:?\s*$`), sectionRecommendations},
}

// inlineHeaders match "Befund: text on the same line".
var inlineHeaders = []struct {
	pattern *regexp.Regexp
	kind    sectionKind
}{
	{regexp.MustCompile(`(?i)^\s*(technik|technique|methodik|untersuchungstechnik)\s*:\s*(.+)$`), sectionTechnical},
	{regexp.MustCompile(`(?i)^\s*(befund|befunde|findings?)\s*:\s*(.+)$`), sectionFindings},
	{regexp.MustCompile(`(?i)^\s*(beurteilung|impression|zusammenfassung|assessment)\s*:\s*(.+)$`), sectionImpression},
	{regexp.MustCompile(`(?i)^\s*(empfehlung|empfehlungen|recommendations?)\s*:\s*(.+)$`), sectionRecommendations},
}

// parseSections splits the output at recognized clinical section headers,
// each section running until the next recognized header.
func parseSections(raw string) (Result, bool) {
	lines := strings.Split(raw, "\n")
	sections := make(map[sectionKind][]string)
	current := sectionKind(-1)
	found := false

	for _, line := range lines {
		matched := false
		for _, h := range sectionHeaders {
			if h.pattern.MatchString(line) {
				current = h.kind
				found = true
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		for _, h := range inlineHeaders {
			if m := h.pattern.FindStringSubmatch(line); m != nil {
				current = h.kind
				found = true
				matched = true
				sections[current] = append(sections[current], m[2])
				break
			}
		}
		if matched || current < 0 {
			continue
		}
		sections[current] = append(sections[current], line)
	}

	if !found {
		return Result{}, false
	}

	join := func(k sectionKind) string {
		return strings.TrimSpace(strings.Join(sections[k], "\n"))
	}

	res := Result{
		TechnicalDetails: join(sectionTechnical),
		Findings:         Findings{Content: join(sectionFindings)},
		Impression:       join(sectionImpression),
		Recommendations:  join(sectionRecommendations),
	}
	if res.Findings.Content == "" && res.Impression == "" {
		return Result{}, false
	}
	if res.Findings.Content != "" {
		res.Findings.Structured = synthesizeFindings(res.Findings.Content)
	}
	return res, true
}

// ---------------------------------------------------------------------------
// Stage 3: sentence synthesis
// ---------------------------------------------------------------------------

// criticalTerms force critical significance; significantTerms mark a finding
// as significant unless negated in the same sentence.
var (
	criticalTerms = []string{
		"malignom", "malignität", "karzinom", "metastase", "fraktur",
		"embolie", "blutung", "ruptur", "ischämie", "akut", "perforation",
	}
	significantTerms = []string{
		"auffällig", "vergrößert", "läsion", "stenose", "verdacht",
		"progredient", "herdbefund", "raumforderung", "verschattung",
		"erguss", "infiltrat",
	}
	negationTerms = []string{"kein", "keine", "ohne", "nicht", "unauffällig", "ausschluss", "no ", "without"}
)

// synthesize builds a result from prose with no recognizable structure. The
// raw text is preserved as findings content.
func synthesize(raw string) Result {
	return Result{
		Findings: Findings{
			Content:    raw,
			Structured: synthesizeFindings(raw),
		},
	}
}

// synthesizeFindings splits text into sentence-like units and tags each with
// a significance level and a source span within the given text.
func synthesizeFindings(text string) []StructuredFinding {
	sentences := splitSentences(text)
	findings := make([]StructuredFinding, 0, len(sentences))
	for i, sentence := range sentences {
		span := locateSpan(text, sentence, i, len(sentences))
		findings = append(findings, StructuredFinding{
			Text:         sentence,
			Significance: classifySignificance(sentence),
			SourceSpan:   span,
		})
	}
	return findings
}

var sentenceSplit = regexp.MustCompile(`[.!?]+(\s+|$)`)

// splitSentences breaks text on sentence punctuation, dropping fragments too
// short to carry a clinical statement.
func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len([]rune(p)) >= 10 {
			out = append(out, p)
		}
	}
	return out
}

func classifySignificance(sentence string) Significance {
	lower := strings.ToLower(sentence)
	negated := false
	for _, n := range negationTerms {
		if strings.Contains(lower, n) {
			negated = true
			break
		}
	}
	for _, t := range criticalTerms {
		if strings.Contains(lower, t) {
			if negated {
				return SignificanceGeneral
			}
			return SignificanceCritical
		}
	}
	for _, t := range significantTerms {
		if strings.Contains(lower, t) {
			if negated {
				return SignificanceGeneral
			}
			return SignificanceSignificant
		}
	}
	return SignificanceGeneral
}

// locateSpan finds the sentence's span in the source text: exact substring
// first, then anchoring on the longest distinctive term and expanding to
// sentence boundaries, then proportional estimation by sentence order.
func locateSpan(text, sentence string, index, total int) SourceSpan {
	if idx := strings.Index(text, sentence); idx >= 0 {
		return SourceSpan{Start: idx, End: idx + len(sentence)}
	}

	if anchor := longestTerm(sentence); anchor != "" {
		if idx := strings.Index(text, anchor); idx >= 0 {
			return expandToSentence(text, idx, idx+len(anchor))
		}
	}

	if total <= 0 {
		return SourceSpan{Start: 0, End: len(text)}
	}
	start := index * len(text) / total
	end := (index + 1) * len(text) / total
	return clampSpan(SourceSpan{Start: start, End: end}, len(text))
}

// longestTerm picks the longest alphabetic token of a sentence as the search
// anchor; ties resolve to the earliest occurrence for determinism.
func longestTerm(sentence string) string {
	words := strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})
	if len(words) == 0 || len(words[0]) < 5 {
		return ""
	}
	return words[0]
}

// expandToSentence widens an anchor span outward to the surrounding sentence
// boundaries.
func expandToSentence(text string, start, end int) SourceSpan {
	for start > 0 && !isBoundary(text[start-1]) {
		start--
	}
	for end < len(text) && !isBoundary(text[end]) {
		end++
	}
	if end < len(text) {
		end++ // include the terminator
	}
	return clampSpan(SourceSpan{Start: start, End: end}, len(text))
}

func isBoundary(b byte) bool {
	return b == '.' || b == '!' || b == '?' || b == '\n'
}

func clampSpan(s SourceSpan, max int) SourceSpan {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End > max {
		s.End = max
	}
	if s.Start > s.End {
		s.Start = s.End
	}
	return s
}
