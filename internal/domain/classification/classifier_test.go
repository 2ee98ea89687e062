package classification

import (
	"strings"
	"testing"
)

const mammographyReport = `Mammographie beidseits in zwei Ebenen.
Drüsengewebe vom Typ ACR b. Kein Herdbefund, kein Mikrokalk.
Unauffällige Befunde beidseits ohne Hinweise auf Malignität. BIRADS 1.`

func TestClassify_Mammography(t *testing.T) {
	c := New(DefaultConfig())
	res := c.Classify(mammographyReport)

	if res.Category != CategoryMammography {
		t.Fatalf("expected mammography, got %s", res.Category)
	}
	if res.Confidence <= 0.6 {
		t.Errorf("expected confidence > 0.6, got %f", res.Confidence)
	}
}

func TestClassify_ConfidenceBounded(t *testing.T) {
	c := New(DefaultConfig())
	texts := []string{
		mammographyReport,
		"MRT der LWS: Bandscheibenvorfall L4/L5 mit Spinalkanalstenose.",
		"CT Thorax mit Kontrastmittelgabe, Dichtewerte in der nativen Phase unauffällig.",
		"Sonographie des Abdomens, echoarme Raumforderung mit Schallschatten.",
		"Befund und Beurteilung folgen.",
		"completely unrelated shopping list: milk, bread, eggs",
	}
	for _, text := range texts {
		res := c.Classify(text)
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Errorf("confidence out of range for %q: %f", text[:20], res.Confidence)
		}
		seen := make(map[Category]bool)
		for i, cand := range res.Candidates {
			if cand.Score < 0 || cand.Score > 1 {
				t.Errorf("candidate score out of range: %f", cand.Score)
			}
			if seen[cand.Category] {
				t.Errorf("duplicate candidate category %s", cand.Category)
			}
			seen[cand.Category] = true
			if i > 0 && res.Candidates[i-1].Score < cand.Score {
				t.Error("candidates not sorted descending")
			}
		}
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	c := New(DefaultConfig())
	res := c.Classify("")
	if res.Category != CategoryGeneral {
		t.Errorf("expected general for empty input, got %s", res.Category)
	}
	if res.Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", res.Confidence)
	}
}

func TestClassify_OverlapTieBreak(t *testing.T) {
	// A combined report mentioning both modalities; BIRADS marks it as a
	// mammography report with complementary ultrasound.
	text := `Mammographie und ergänzende Sonographie der Mamma beidseits.
Mikrokalk retromamillär links. Kein Herdbefund. BIRADS 2.
Ultraschall ohne Nachweis zystischer Läsionen.`

	c := New(DefaultConfig())
	res := c.Classify(text)
	if res.Category != CategoryMammography {
		t.Fatalf("tie-break should favor mammography, got %s", res.Category)
	}

	// Same overlap but with explicit counter markers keeps ultrasound in play.
	counter := `Sonographie der Mamma mit 12 MHz Schallkopf.
Duplexsonographie ohne pathologisches Dopplersignal. Echoarme Läsion.`
	res = c.Classify(counter)
	if res.Category != CategoryUltrasound {
		t.Errorf("expected ultrasound for pure sonography report, got %s", res.Category)
	}
}

func TestClassify_SpineBeatsGenericMRI(t *testing.T) {
	text := "MRT der LWS: Osteochondrose, Protrusion L5/S1, Neuroforamen eingeengt."
	c := New(DefaultConfig())
	res := c.Classify(text)
	if res.Category != CategorySpineMRI {
		t.Fatalf("expected spine_mri, got %s", res.Category)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(DefaultConfig())
	first := c.Classify(mammographyReport)
	for i := 0; i < 10; i++ {
		again := c.Classify(mammographyReport)
		if again.Category != first.Category || again.Confidence != first.Confidence {
			t.Fatal("classification not deterministic")
		}
		if len(again.Candidates) != len(first.Candidates) {
			t.Fatal("candidate count varies between runs")
		}
		for j := range again.Candidates {
			if again.Candidates[j] != first.Candidates[j] {
				t.Fatalf("candidate %d differs between runs", j)
			}
		}
	}
}

func TestClassify_SingleCategoryHighConfidence(t *testing.T) {
	// Only mammography markers, no other modality mentioned.
	text := strings.Join([]string{
		"Mammographie-Screening.",
		"Drüsengewebe ACR a, kein Mikrokalk, kein Herdbefund, BIRADS 1.",
	}, " ")
	c := New(DefaultConfig())
	res := c.Classify(text)
	if res.Category != CategoryMammography || res.Confidence <= 0.6 {
		t.Errorf("expected confident mammography, got %s at %f", res.Category, res.Confidence)
	}
}

func TestTop(t *testing.T) {
	res := Classification{Candidates: []CandidateScore{
		{Category: CategoryCT, Score: 0.5},
		{Category: CategoryMRI, Score: 0.3},
		{Category: CategoryGeneral, Score: 0.2},
	}}
	if got := len(res.Top(2)); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := len(res.Top(10)); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
