package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sehat/internal/domain"
	"sehat/internal/reference"
)

type fakeService struct {
	got  domain.TurnRequest
	err  error
	resp domain.ChatResponse
}

func (f *fakeService) Chat(_ context.Context, req domain.TurnRequest) (domain.ChatResponse, error) {
	f.got = req
	if f.err != nil {
		return domain.ChatResponse{}, f.err
	}
	return f.resp, nil
}

func (f *fakeService) Predict(_ context.Context, req domain.TurnRequest) (domain.PredictResponse, error) {
	f.got = req
	if f.err != nil {
		return domain.PredictResponse{}, f.err
	}
	return domain.PredictResponse{
		Predictions:   []domain.RankedPrediction{{Disease: "Flu", Confidence: 0.6, Symptoms: []string{"demam"}}},
		ProcessedText: domain.ProcessedText{MedicalTerms: []string{"demam"}, Tokens: []string{"demam"}},
	}, nil
}

type fakeEvents struct {
	kind  string
	limit int
}

func (f *fakeEvents) RecentEvents(_ context.Context, kind string, limit int) ([]domain.TriageEvent, error) {
	f.kind, f.limit = kind, limit
	return []domain.TriageEvent{{EventID: "e1", Kind: domain.EventKindChat}}, nil
}

func newTestRouter(t *testing.T, svc TriageService, opts Options) http.Handler {
	t.Helper()
	symptoms := []reference.Symptom{{Code: "demam", Phrases: []string{"panas"}}}
	h, err := NewHandler(svc, symptoms, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewHandler error: %v", err)
	}
	return NewRouter(h, []string{"http://localhost:3000"})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t, &fakeService{}, Options{})
	rec := do(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "healthy" || body["message"] != "API is running" {
		t.Fatalf("body=%v", body)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rec.Code)
	}
}

func TestChatPassesContext(t *testing.T) {
	svc := &fakeService{resp: domain.ChatResponse{
		Response:    "ok",
		Suggestions: []string{"a"},
		Context:     domain.ConversationContext{MedicalTerms: []string{"batuk", "demam"}},
	}}
	h := newTestRouter(t, svc, Options{})
	rec := do(t, h, http.MethodPost, "/api/chat", `{"text":"saya demam","context":{"medical_terms":["batuk"]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.got.Text != "saya demam" || svc.got.Context == nil || svc.got.Context.MedicalTerms[0] != "batuk" {
		t.Fatalf("service got %+v", svc.got)
	}
	var out domain.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Context.MedicalTerms) != 2 {
		t.Fatalf("context=%v", out.Context.MedicalTerms)
	}
}

func TestPredictResponseShape(t *testing.T) {
	h := newTestRouter(t, &fakeService{}, Options{})
	rec := do(t, h, http.MethodPost, "/api/predict", `{"text":"demam"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if _, ok := out["predictions"]; !ok {
		t.Fatalf("missing predictions: %s", rec.Body.String())
	}
	pt, ok := out["processed_text"].(map[string]any)
	if !ok || pt["tokens"] == nil || pt["medical_terms"] == nil {
		t.Fatalf("missing processed_text: %s", rec.Body.String())
	}
}

func TestRequestValidation(t *testing.T) {
	h := newTestRouter(t, &fakeService{}, Options{MaxBodyBytes: 256})
	cases := []struct {
		name string
		body string
	}{
		{name: "missing text", body: `{}`},
		{name: "empty text", body: `{"text":""}`},
		{name: "wrong type", body: `{"text":42}`},
		{name: "unknown field", body: `{"text":"x","extra":1}`},
		{name: "bad terms", body: `{"text":"x","context":{"medical_terms":[1]}}`},
		{name: "unknown context field", body: `{"text":"x","context":{"medical_terms":["batuk"],"session":"s1"}}`},
		{name: "not json", body: `text=demam`},
		{name: "too large", body: fmt.Sprintf(`{"text":"%s"}`, strings.Repeat("a", 300))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/chat", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400 body=%s", rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("error body=%s", rec.Body.String())
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("x: %w", domain.ErrInvalidInput), want: http.StatusBadRequest},
		{err: fmt.Errorf("x: %w", domain.ErrServiceUnavailable), want: http.StatusServiceUnavailable},
		{err: fmt.Errorf("x: %w", domain.ErrPredictionFailed), want: http.StatusUnprocessableEntity},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := newTestRouter(t, &fakeService{err: tc.err}, Options{})
		rec := do(t, h, http.MethodPost, "/api/predict", `{"text":"demam"}`)
		if rec.Code != tc.want {
			t.Fatalf("err=%v status=%d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestSymptomsAndEvents(t *testing.T) {
	ev := &fakeEvents{}
	h := newTestRouter(t, &fakeService{}, Options{Events: ev, EventLimit: 10})

	rec := do(t, h, http.MethodGet, "/api/symptoms", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"code":"demam"`) {
		t.Fatalf("symptoms status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/events?kind=chat&limit=500", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("events status=%d", rec.Code)
	}
	if ev.kind != "chat" || ev.limit != 10 {
		t.Fatalf("lister got kind=%s limit=%d", ev.kind, ev.limit)
	}
	if rec := do(t, h, http.MethodGet, "/api/events?limit=-1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status=%d", rec.Code)
	}

	noEvents := newTestRouter(t, &fakeService{}, Options{})
	if rec := do(t, noEvents, http.MethodGet, "/api/events", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("events without store status=%d, want 404", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t, &fakeService{}, Options{})
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status=%d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin=%q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin=%q", got)
	}
}
