package dialogue

import (
	"strings"
	"testing"

	"sehat/internal/domain"
	"sehat/internal/reference"
	"sehat/internal/symptom"
)

func newTestEngine(t *testing.T) (*Engine, *reference.Data) {
	t.Helper()
	data, err := reference.Default()
	if err != nil {
		t.Fatalf("reference data: %v", err)
	}
	e, err := NewEngine(data)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return e, data
}

func TestConverseGreetingIsCanned(t *testing.T) {
	e, data := newTestEngine(t)
	got := e.Converse("halo", symptom.NewSet())
	if got.Response != data.Intents[0].Response {
		t.Fatalf("response=%q, want greeting", got.Response)
	}
	if len(got.Suggestions) != 3 {
		t.Fatalf("suggestions=%d, want 3", len(got.Suggestions))
	}
	if len(got.Context.MedicalTerms) != 0 {
		t.Fatalf("context=%v, want empty", got.Context.MedicalTerms)
	}
	if got.Intent != "greeting" {
		t.Fatalf("intent=%s, want greeting", got.Intent)
	}
}

func TestConverseCannedHitStillCarriesContext(t *testing.T) {
	e, _ := newTestEngine(t)
	got := e.Converse("Halo, saya demam", symptom.NewSet("demam"))
	if got.Intent != "greeting" {
		t.Fatalf("intent=%s, want greeting", got.Intent)
	}
	if len(got.Context.MedicalTerms) != 1 || got.Context.MedicalTerms[0] != "demam" {
		t.Fatalf("context=%v, want [demam]", got.Context.MedicalTerms)
	}
}

func TestConverseQuestionsAcrossPriorAndNewSymptoms(t *testing.T) {
	e, data := newTestEngine(t)
	merged := symptom.Merge(symptom.NewSet("demam"), domain.ConversationContext{MedicalTerms: []string{"batuk"}})
	got := e.Converse("saya demam", merged)

	if !strings.HasPrefix(got.Response, data.Dialogue.Instruction+"\n") {
		t.Fatalf("response should start with instruction line: %q", got.Response)
	}
	if !strings.Contains(got.Response, data.Questions["demam"][0]) {
		t.Fatalf("missing fever question in %q", got.Response)
	}
	if !strings.Contains(got.Response, data.Questions["batuk"][0]) {
		t.Fatalf("missing cough question in %q", got.Response)
	}
	questions, _, _ := strings.Cut(got.Response, data.Dialogue.AdvisoryHeader)
	if strings.Contains(questions, "\n4. ") {
		t.Fatalf("more than 3 questions in %q", questions)
	}
	numbered := 0
	for _, line := range strings.Split(got.Response, "\n") {
		for _, qs := range data.Questions {
			for _, q := range qs {
				if strings.HasSuffix(line, ". "+q) && len(line) == len(q)+3 {
					numbered++
				}
			}
		}
	}
	if numbered != 3 {
		t.Fatalf("numbered questions=%d, want 3", numbered)
	}
	if len(got.Suggestions) != 4 {
		t.Fatalf("suggestions=%d, want 4", len(got.Suggestions))
	}
}

func TestConverseLayoutOrder(t *testing.T) {
	e, data := newTestEngine(t)
	got := e.Converse("saya demam dan batuk", symptom.NewSet("demam", "batuk"))
	want := strings.Join([]string{
		data.Dialogue.Instruction,
		"1. " + data.Questions["demam"][0],
		"2. " + data.Questions["batuk"][0],
		"3. " + data.Questions["demam"][1],
		"",
		data.Dialogue.AdvisoryHeader,
		data.Advice["demam"],
		data.Advice["batuk"],
	}, "\n")
	if got.Response != want {
		t.Fatalf("response=\n%s\nwant\n%s", got.Response, want)
	}
}

func TestConverseAdviceWithoutQuestions(t *testing.T) {
	data := &reference.Data{
		Advice: map[string]string{"gatal": "Untuk gatal: jangan digaruk"},
		Dialogue: reference.Dialogue{
			Instruction:        "Q:",
			AdvisoryHeader:     "Saran:",
			Fallback:           "F",
			MaxQuestions:       3,
			CannedSuggestions:  []string{"a"},
			GenericSuggestions: []string{"b"},
		},
	}
	e, err := NewEngine(data)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	got := e.Converse("gatal", symptom.NewSet("gatal"))
	if got.Response != "\nSaran:\nUntuk gatal: jangan digaruk" {
		t.Fatalf("response=%q", got.Response)
	}
}

func TestConverseFallbackForUnknownTerms(t *testing.T) {
	e, data := newTestEngine(t)
	got := e.Converse("aduh", symptom.NewSet("aduh"))
	if got.Response != data.Dialogue.Fallback {
		t.Fatalf("response=%q, want fallback", got.Response)
	}
	if len(got.Suggestions) != 4 {
		t.Fatalf("suggestions=%d, want 4", len(got.Suggestions))
	}
	if len(got.Context.MedicalTerms) != 1 {
		t.Fatalf("context=%v, want [aduh]", got.Context.MedicalTerms)
	}
}

func TestQuestionsAreDeduplicated(t *testing.T) {
	data, err := reference.Default()
	if err != nil {
		t.Fatalf("reference data: %v", err)
	}
	data.Dialogue.MaxQuestions = 10
	e, err := NewEngine(data)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	shared := "Apakah ada gejala lain yang menyertai?"
	got := e.Converse("x", symptom.NewSet("demam", "sakit_kepala"))
	if n := strings.Count(got.Response, shared); n != 1 {
		t.Fatalf("shared question count=%d, want 1 in %q", n, got.Response)
	}
	if !strings.Contains(got.Response, "\n7. ") || strings.Contains(got.Response, "\n8. ") {
		t.Fatalf("want exactly 7 distinct questions in %q", got.Response)
	}
}
