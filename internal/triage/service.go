package triage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sehat/internal/dialogue"
	"sehat/internal/domain"
	"sehat/internal/nlp"
	"sehat/internal/symptom"
)

type Normalizer interface {
	Normalize(ctx context.Context, raw string) (nlp.Result, error)
}

type Resolver interface {
	Resolve(tokens []string) symptom.Set
}

type Conversation interface {
	Converse(raw string, merged symptom.Set) dialogue.Reply
}

type Predictor interface {
	Rank(ctx context.Context, merged symptom.Set) ([]domain.RankedPrediction, error)
}

// Service runs one turn through normalize, resolve and merge, then hands the
// merged set to the dialogue engine or the ranker.
type Service struct {
	normalizer Normalizer
	resolver   Resolver
	dialogue   Conversation
	ranker     Predictor
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// New wires the pipeline. recorder may be nil.
func New(normalizer Normalizer, resolver Resolver, conv Conversation, ranker Predictor, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		normalizer: normalizer,
		resolver:   resolver,
		dialogue:   conv,
		ranker:     ranker,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

type turn struct {
	text   string
	result nlp.Result
	merged symptom.Set
}

func (s *Service) prepare(ctx context.Context, req domain.TurnRequest) (turn, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return turn{}, fmt.Errorf("text is required: %w", domain.ErrInvalidInput)
	}
	res, err := s.normalizer.Normalize(ctx, text)
	if err != nil {
		return turn{}, err
	}
	var prior domain.ConversationContext
	if req.Context != nil {
		prior = *req.Context
	}
	merged := symptom.Merge(s.resolver.Resolve(res.Tokens), prior)
	return turn{text: text, result: res, merged: merged}, nil
}

func (s *Service) Chat(ctx context.Context, req domain.TurnRequest) (domain.ChatResponse, error) {
	start := time.Now()
	t, err := s.prepare(ctx, req)
	if err != nil {
		return domain.ChatResponse{}, err
	}
	prepDur := time.Since(start)

	reply := s.dialogue.Converse(t.text, t.merged)
	s.record(ctx, domain.TriageEvent{
		Kind:         domain.EventKindChat,
		MedicalTerms: reply.Context.MedicalTerms,
		Intent:       reply.Intent,
	})

	s.logger.Info("chat timing",
		"intent", reply.Intent,
		"terms", t.merged.Len(),
		"normalize_ms", prepDur.Milliseconds(),
		"total_ms", time.Since(start).Milliseconds(),
	)
	return domain.ChatResponse{
		Response:    reply.Response,
		Suggestions: reply.Suggestions,
		Context:     reply.Context,
	}, nil
}

func (s *Service) Predict(ctx context.Context, req domain.TurnRequest) (domain.PredictResponse, error) {
	start := time.Now()
	t, err := s.prepare(ctx, req)
	if err != nil {
		return domain.PredictResponse{}, err
	}
	prepDur := time.Since(start)

	preds, err := s.ranker.Rank(ctx, t.merged)
	if err != nil {
		return domain.PredictResponse{}, err
	}
	terms := t.merged.Terms()
	s.record(ctx, domain.TriageEvent{
		Kind:         domain.EventKindPredict,
		MedicalTerms: terms,
		Predictions:  preds,
	})

	s.logger.Info("predict timing",
		"terms", len(terms),
		"predictions", len(preds),
		"normalize_ms", prepDur.Milliseconds(),
		"total_ms", time.Since(start).Milliseconds(),
	)
	return domain.PredictResponse{
		Predictions: preds,
		ProcessedText: domain.ProcessedText{
			MedicalTerms: terms,
			Tokens:       t.result.Tokens,
		},
	}, nil
}

func (s *Service) record(ctx context.Context, ev domain.TriageEvent) {
	if s.recorder == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.CreatedAt = s.now().UTC()
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.logger.Warn("record triage event failed", "kind", ev.Kind, "event_id", ev.EventID, "error", err)
	}
}
