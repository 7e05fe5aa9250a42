package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sehat/internal/domain"
)

// Store keeps the triage audit trail: one row per answered turn, holding
// the resolved terms and the outcome, never the raw conversation.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS triage_events (
			event_id UUID PRIMARY KEY,
			kind TEXT NOT NULL,
			medical_terms JSONB NOT NULL DEFAULT '[]'::jsonb,
			intent TEXT,
			top_disease TEXT,
			predictions JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_triage_events_kind_created ON triage_events(kind, created_at DESC);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Record(ctx context.Context, ev domain.TriageEvent) error {
	id, err := uuid.Parse(ev.EventID)
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	terms, err := json.Marshal(nonNil(ev.MedicalTerms))
	if err != nil {
		return err
	}
	preds := ev.Predictions
	if preds == nil {
		preds = []domain.RankedPrediction{}
	}
	predJSON, err := json.Marshal(preds)
	if err != nil {
		return err
	}
	var top string
	if len(preds) > 0 {
		top = preds[0].Disease
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO triage_events(event_id, kind, medical_terms, intent, top_disease, predictions, created_at)
		VALUES($1, $2, $3::jsonb, $4, $5, $6::jsonb, $7)
		ON CONFLICT (event_id) DO NOTHING
	`, id, ev.Kind, string(terms), nullIfEmpty(ev.Intent), nullIfEmpty(top), string(predJSON), ev.CreatedAt)
	return err
}

// RecentEvents lists the newest events first. An empty kind matches all.
func (s *Store) RecentEvents(ctx context.Context, kind string, limit int) ([]domain.TriageEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT event_id::text, kind, medical_terms, COALESCE(intent, ''), predictions, created_at
		FROM triage_events
		WHERE ($1 = '' OR kind = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.TriageEvent, 0, limit)
	for rows.Next() {
		var (
			ev       domain.TriageEvent
			termsRaw []byte
			predsRaw []byte
		)
		if err := rows.Scan(&ev.EventID, &ev.Kind, &termsRaw, &ev.Intent, &predsRaw, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(termsRaw, &ev.MedicalTerms); err != nil {
			return nil, fmt.Errorf("decode medical_terms: %w", err)
		}
		if err := json.Unmarshal(predsRaw, &ev.Predictions); err != nil {
			return nil, fmt.Errorf("decode predictions: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func nonNil(terms []string) []string {
	if terms == nil {
		return []string{}
	}
	return terms
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
