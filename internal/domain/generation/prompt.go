package generation

import (
	"fmt"
	"strings"

	"github.com/medessence/medessence/internal/domain/classification"
)

// categoryInstructions carries the per-category prompt specialization.
var categoryInstructions = map[classification.Category]string{
	classification.CategoryMammography: "Achte auf BIRADS-Klassifikation, Herdbefunde, Mikrokalk und Drüsengewebedichte (ACR).",
	classification.CategorySpineMRI:    "Beschreibe Bandscheiben, Spinalkanal, Neuroforamina und Nervenwurzelkompression je Segment.",
	classification.CategoryCT:          "Beschreibe Dichtewerte, Kontrastmittelverhalten und die untersuchten Organregionen.",
	classification.CategoryMRI:         "Beschreibe Signalverhalten in T1/T2/FLAIR und Kontrastmittelaufnahme.",
	classification.CategoryUltrasound:  "Beschreibe Echogenität, Organgrenzen und Dopplerbefunde.",
	classification.CategoryXRay:        "Beschreibe Transparenz, Verschattungen und knöcherne Strukturen.",
	classification.CategoryPathology:   "Beschreibe Histologie, Grading und Resektionsränder.",
	classification.CategoryCardiac:     "Beschreibe Ventrikelfunktion, Klappenstatus und Wandbewegung.",
	classification.CategoryOncology:    "Beschreibe Tumorausdehnung, Staging-relevante Befunde und Verlauf.",
}

// BuildPrompt renders the backend prompt for one request. The output format
// instruction asks for the structured JSON form first so the parser's
// structured path usually succeeds.
func BuildPrompt(req Request) string {
	var b strings.Builder

	if req.Language == "en" {
		b.WriteString("You are a radiology reporting assistant. ")
		b.WriteString("Produce a structured clinical report from the dictated text below.\n\n")
	} else {
		b.WriteString("Du bist ein radiologischer Befundungsassistent. ")
		b.WriteString("Erstelle aus dem folgenden diktierten Text einen strukturierten Befund.\n\n")
	}

	if instr, ok := categoryInstructions[req.Category]; ok {
		b.WriteString(instr)
		b.WriteString("\n\n")
	}

	switch req.Operation {
	case OperationSummary:
		b.WriteString("Fasse den Befund in wenigen Sätzen zusammen.\n\n")
	case OperationImpression:
		b.WriteString("Formuliere nur die Beurteilung.\n\n")
	}

	b.WriteString("Antworte als JSON-Objekt mit den Feldern ")
	b.WriteString(`"technicalDetails", "findings" {"content", "structuredFindings"}, "impression", "recommendations".`)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Text:\n%s\n", req.Text)
	return b.String()
}

// Truncate shortens text to at most max characters, cutting at the nearest
// paragraph, sentence or word boundary before the limit, never mid-word.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	head := text[:max]

	if idx := strings.LastIndex(head, "\n\n"); idx > max/2 {
		return strings.TrimSpace(head[:idx])
	}
	if idx := lastSentenceEnd(head); idx > max/2 {
		return strings.TrimSpace(head[:idx+1])
	}
	if idx := strings.LastIndexAny(head, " \n\t"); idx > 0 {
		return strings.TrimSpace(head[:idx])
	}
	return head
}

func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}
