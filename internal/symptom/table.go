package symptom

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sehat/internal/nlp"
	"sehat/internal/reference"
)

type Entry struct {
	Code    string
	Phrases []string
}

// Table is the ordered synonym dictionary. Entry order is the tie-break
// between codes whose phrases overlap.
type Table struct {
	entries []Entry
}

type PhraseNormalizer interface {
	Normalize(ctx context.Context, raw string) (nlp.Result, error)
}

func NewTable(symptoms []reference.Symptom) Table {
	entries := make([]Entry, 0, len(symptoms))
	for _, s := range symptoms {
		code := strings.TrimSpace(s.Code)
		if code == "" {
			continue
		}
		phrases := append([]string{strings.ReplaceAll(code, "_", " ")}, s.Phrases...)
		entries = append(entries, Entry{Code: code, Phrases: orderPhrases(phrases)})
	}
	return Table{entries: entries}
}

// Rooted runs every phrase through the same normalization as user text so
// phrases and stemmed tokens share one surface form.
func (t Table) Rooted(ctx context.Context, n PhraseNormalizer) (Table, error) {
	entries := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		phrases := make([]string, 0, len(e.Phrases))
		for _, p := range e.Phrases {
			res, err := n.Normalize(ctx, p)
			if err != nil {
				return Table{}, fmt.Errorf("root phrase %q of %s: %w", p, e.Code, err)
			}
			if len(res.Tokens) == 0 {
				return Table{}, fmt.Errorf("phrase %q of %s normalizes to nothing", p, e.Code)
			}
			phrases = append(phrases, strings.Join(res.Tokens, " "))
		}
		entries = append(entries, Entry{Code: e.Code, Phrases: orderPhrases(phrases)})
	}
	return Table{entries: entries}, nil
}

func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Code: e.Code, Phrases: append([]string(nil), e.Phrases...)}
	}
	return out
}

func (t Table) Codes() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Code)
	}
	return out
}

// orderPhrases normalizes spacing, drops duplicates and sorts longest-first.
// Equal lengths keep their authored order.
func orderPhrases(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.Join(strings.Fields(strings.ToLower(p)), " ")
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}
