package nlp

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"sehat/internal/domain"
	"sehat/internal/linguistic"
)

type Result struct {
	Cleaned string
	Tokens  []string
}

type Normalizer struct {
	lang linguistic.Service
}

func NewNormalizer(lang linguistic.Service) *Normalizer {
	return &Normalizer{lang: lang}
}

// Normalize cleans raw text and reduces it to stopword-free root tokens.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (Result, error) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return Result{Cleaned: "", Tokens: []string{}}, nil
	}

	tokens, err := n.lang.Tokenize(ctx, cleaned)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize: %w: %v", domain.ErrServiceUnavailable, err)
	}
	tokens, err = n.lang.RemoveStopwords(ctx, tokens)
	if err != nil {
		return Result{}, fmt.Errorf("remove stopwords: %w: %v", domain.ErrServiceUnavailable, err)
	}
	if len(tokens) == 0 {
		return Result{Cleaned: cleaned, Tokens: []string{}}, nil
	}
	tokens, err = n.lang.Stem(ctx, tokens)
	if err != nil {
		return Result{}, fmt.Errorf("stem: %w: %v", domain.ErrServiceUnavailable, err)
	}
	return Result{Cleaned: cleaned, Tokens: tokens}, nil
}

// Clean lowercases text, turns every non-letter into a space and collapses
// whitespace. Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	mapped := strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, raw)
	return strings.Join(strings.Fields(mapped), " ")
}
