package linguistic

import "context"

// Service reduces cleaned text to root-form tokens. Implementations must be
// deterministic for identical input.
type Service interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
	RemoveStopwords(ctx context.Context, tokens []string) ([]string, error)
	Stem(ctx context.Context, tokens []string) ([]string, error)
}
