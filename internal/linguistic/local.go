package linguistic

import (
	"context"
	"strings"

	"github.com/RadhiFadlillah/go-sastrawi"
)

// Local runs the Indonesian pipeline in process: whitespace tokenizer, fixed
// stopword list and the Sastrawi stemmer.
type Local struct {
	stopwords map[string]struct{}
	stemmer   sastrawi.Stemmer
}

func NewLocal() *Local {
	return &Local{
		stopwords: newStopwordSet(indonesianStopwords),
		stemmer:   sastrawi.NewStemmer(sastrawi.DefaultDictionary()),
	}
}

func (l *Local) Tokenize(_ context.Context, text string) ([]string, error) {
	return strings.Fields(text), nil
}

func (l *Local) RemoveStopwords(_ context.Context, tokens []string) ([]string, error) {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := l.stopwords[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

func (l *Local) Stem(_ context.Context, tokens []string) ([]string, error) {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		root := l.stemmer.Stem(tok)
		if root == "" {
			root = tok
		}
		out = append(out, root)
	}
	return out, nil
}
