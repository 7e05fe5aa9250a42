package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"sehat/internal/domain"
	"sehat/internal/reference"
)

type TriageService interface {
	Chat(ctx context.Context, req domain.TurnRequest) (domain.ChatResponse, error)
	Predict(ctx context.Context, req domain.TurnRequest) (domain.PredictResponse, error)
}

// EventLister reads back the triage audit trail.
type EventLister interface {
	RecentEvents(ctx context.Context, kind string, limit int) ([]domain.TriageEvent, error)
}

type Handler struct {
	svc        TriageService
	validator  *Validator
	symptoms   []reference.Symptom
	events     EventLister
	maxBody    int64
	eventLimit int
	logger     *slog.Logger
}

type Options struct {
	MaxBodyBytes int64
	// Events enables GET /api/events when set.
	Events     EventLister
	EventLimit int
}

func NewHandler(svc TriageService, symptoms []reference.Symptom, opts Options, logger *slog.Logger) (*Handler, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 65536
	}
	if opts.EventLimit <= 0 {
		opts.EventLimit = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:        svc,
		validator:  v,
		symptoms:   symptoms,
		events:     opts.Events,
		maxBody:    opts.MaxBodyBytes,
		eventLimit: opts.EventLimit,
		logger:     logger,
	}, nil
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "message": "API is running"})
}

func (h *Handler) chat(w http.ResponseWriter, req *http.Request) {
	in, ok := h.decodeTurn(w, req)
	if !ok {
		return
	}
	resp, err := h.svc.Chat(req.Context(), in)
	if err != nil {
		h.fail(w, "chat", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) predict(w http.ResponseWriter, req *http.Request) {
	in, ok := h.decodeTurn(w, req)
	if !ok {
		return
	}
	resp, err := h.svc.Predict(req.Context(), in)
	if err != nil {
		h.fail(w, "predict", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listSymptoms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"symptoms": h.symptoms})
}

func (h *Handler) listEvents(w http.ResponseWriter, req *http.Request) {
	limit := h.eventLimit
	if v := strings.TrimSpace(req.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}
	kind := strings.TrimSpace(req.URL.Query().Get("kind"))
	events, err := h.events.RecentEvents(req.Context(), kind, limit)
	if err != nil {
		h.fail(w, "list events", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) decodeTurn(w http.ResponseWriter, req *http.Request) (domain.TurnRequest, bool) {
	data, err := readBody(req, h.maxBody)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.TurnRequest{}, false
	}
	if err := h.validator.Validate(data); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.TurnRequest{}, false
	}
	var in domain.TurnRequest
	if err := decodeJSON(data, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.TurnRequest{}, false
	}
	return in, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", "status", status, "error", err)
	} else {
		h.logger.Warn(op+" rejected", "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}
