package dialogue

import (
	"fmt"
	"strings"

	"sehat/internal/domain"
	"sehat/internal/reference"
	"sehat/internal/symptom"
)

type Reply struct {
	Response    string
	Suggestions []string
	Context     domain.ConversationContext
	// Intent is the canned intent that answered, empty for symptom replies.
	Intent string
}

type Engine struct {
	intents   []Intent
	questions map[string][]string
	advice    map[string]string
	cfg       reference.Dialogue
}

func NewEngine(data *reference.Data) (*Engine, error) {
	intents, err := CompileIntents(data.Intents)
	if err != nil {
		return nil, err
	}
	questions := make(map[string][]string, len(data.Questions))
	for code, qs := range data.Questions {
		questions[code] = append([]string(nil), qs...)
	}
	advice := make(map[string]string, len(data.Advice))
	for code, text := range data.Advice {
		advice[code] = text
	}
	cfg := data.Dialogue
	cfg.CannedSuggestions = append([]string(nil), cfg.CannedSuggestions...)
	cfg.GenericSuggestions = append([]string(nil), cfg.GenericSuggestions...)
	return &Engine{intents: intents, questions: questions, advice: advice, cfg: cfg}, nil
}

// Converse answers one turn. The merged set is always handed back as the
// caller's next context, canned answers included.
func (e *Engine) Converse(raw string, merged symptom.Set) Reply {
	ctx := symptom.Context(merged)

	if in, ok := FirstMatch(e.intents, raw); ok {
		return Reply{
			Response:    in.Response,
			Suggestions: append([]string(nil), e.cfg.CannedSuggestions...),
			Context:     ctx,
			Intent:      in.Name,
		}
	}

	terms := merged.Terms()
	questions := e.collectQuestions(terms)
	advice := e.collectAdvice(terms)

	var parts []string
	if len(questions) > 0 {
		parts = append(parts, e.cfg.Instruction)
		for i, q := range questions {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, q))
		}
	}
	if len(advice) > 0 {
		parts = append(parts, "\n"+e.cfg.AdvisoryHeader)
		parts = append(parts, advice...)
	}
	if len(parts) == 0 {
		parts = append(parts, e.cfg.Fallback)
	}

	return Reply{
		Response:    strings.Join(parts, "\n"),
		Suggestions: append([]string(nil), e.cfg.GenericSuggestions...),
		Context:     ctx,
	}
}

// collectQuestions takes the first question of every symptom, then the
// second, and so on, skipping repeats, until MaxQuestions are picked.
func (e *Engine) collectQuestions(terms []string) []string {
	var sets [][]string
	longest := 0
	for _, t := range terms {
		qs, ok := e.questions[t]
		if !ok {
			continue
		}
		sets = append(sets, qs)
		if len(qs) > longest {
			longest = len(qs)
		}
	}

	limit := e.cfg.MaxQuestions
	if limit <= 0 {
		limit = 3
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, limit)
	for round := 0; round < longest; round++ {
		for _, qs := range sets {
			if round >= len(qs) {
				continue
			}
			q := qs[round]
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			out = append(out, q)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

func (e *Engine) collectAdvice(terms []string) []string {
	var out []string
	for _, t := range terms {
		if text, ok := e.advice[t]; ok {
			out = append(out, text)
		}
	}
	return out
}
