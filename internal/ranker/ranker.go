package ranker

import (
	"context"
	"fmt"
	"sort"

	"sehat/internal/domain"
	"sehat/internal/oracle"
	"sehat/internal/symptom"
)

const (
	DefaultTopK          = 3
	DefaultMinConfidence = 0.10
)

type Ranker struct {
	oracle        oracle.Oracle
	symptoms      map[string][]string
	topK          int
	minConfidence float64
}

// New builds a ranker over o. symptoms maps disease name to its known
// symptom codes and may be nil for a bare classifier.
func New(o oracle.Oracle, symptoms map[string][]string) *Ranker {
	return &Ranker{
		oracle:        o,
		symptoms:      symptoms,
		topK:          DefaultTopK,
		minConfidence: DefaultMinConfidence,
	}
}

// Rank returns at most topK diseases scoring strictly above minConfidence.
// An empty result means the signal was too weak and is not an error.
func (r *Ranker) Rank(ctx context.Context, merged symptom.Set) ([]domain.RankedPrediction, error) {
	if merged.Len() == 0 {
		return nil, fmt.Errorf("rank: empty symptom set: %w", domain.ErrPredictionFailed)
	}
	if r.oracle == nil {
		return nil, fmt.Errorf("rank: no scoring model: %w", domain.ErrPredictionFailed)
	}

	scores, err := r.oracle.Score(ctx, oracle.NewInput(merged.Sorted()))
	if err != nil {
		return nil, fmt.Errorf("rank: %w: %v", domain.ErrPredictionFailed, err)
	}

	classes := r.oracle.Classes()
	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[classes[order[a]]] > scores[classes[order[b]]]
	})

	out := make([]domain.RankedPrediction, 0, r.topK)
	for _, idx := range order {
		if len(out) == r.topK {
			break
		}
		name := classes[idx]
		p := scores[name]
		if p <= r.minConfidence {
			break
		}
		syms := r.symptoms[name]
		if syms == nil {
			syms = []string{}
		}
		out = append(out, domain.RankedPrediction{
			Disease:    name,
			Confidence: p,
			Symptoms:   append([]string{}, syms...),
		})
	}
	return out, nil
}
