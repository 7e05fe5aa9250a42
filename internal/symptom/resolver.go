package symptom

import (
	"strings"

	"sehat/internal/domain"
)

type Resolver struct {
	table Table
}

func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve maps stemmed tokens to symptom codes. Each matched phrase is
// blanked out of the working buffer so shorter phrases cannot reuse its
// words; whatever is left over is kept as free-form terms.
func (r *Resolver) Resolve(tokens []string) Set {
	buf := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		buf = append(buf, strings.Fields(tok)...)
	}

	out := NewSet()
	for _, e := range r.table.entries {
		for _, phrase := range e.Phrases {
			if blankPhrase(buf, strings.Fields(phrase)) {
				out.add(e.Code)
			}
		}
	}
	for _, w := range buf {
		out.add(w)
	}
	return out
}

// blankPhrase clears every occurrence of words in buf and reports whether
// there was at least one.
func blankPhrase(buf, words []string) bool {
	if len(words) == 0 || len(words) > len(buf) {
		return false
	}
	found := false
	for i := 0; i+len(words) <= len(buf); i++ {
		match := true
		for j, w := range words {
			if buf[i+j] != w {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		for j := range words {
			buf[i+j] = ""
		}
		found = true
		i += len(words) - 1
	}
	return found
}

// Merge unions the terms resolved this turn with the caller's context.
// Prior terms keep their position; the caller's slice is never modified.
func Merge(resolved Set, prior domain.ConversationContext) Set {
	out := NewSet()
	for _, t := range prior.MedicalTerms {
		out.add(strings.TrimSpace(t))
	}
	for _, t := range resolved.terms {
		out.add(t)
	}
	return out
}

// Context wraps the merged set as the value handed back to the caller.
func Context(s Set) domain.ConversationContext {
	return domain.ConversationContext{MedicalTerms: s.Terms()}
}
