package triage

import (
	"context"
	"errors"

	"sehat/internal/domain"
)

// Recorder receives the outcome of every answered turn.
type Recorder interface {
	Record(ctx context.Context, ev domain.TriageEvent) error
}

// Fanout delivers to every sink and joins their errors.
type Fanout []Recorder

func (f Fanout) Record(ctx context.Context, ev domain.TriageEvent) error {
	var errs []error
	for _, r := range f {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
