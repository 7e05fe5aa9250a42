package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"sehat/internal/config"
	"sehat/internal/domain"
	"sehat/internal/mqtt"
)

// eventLog keeps the most recent triage events, newest last.
type eventLog struct {
	mu     sync.RWMutex
	keep   int
	events []domain.TriageEvent
	counts map[string]int
}

func newEventLog(keep int) *eventLog {
	return &eventLog{keep: keep, counts: make(map[string]int)}
}

func (l *eventLog) add(ev domain.TriageEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	if len(l.events) > l.keep {
		l.events = append([]domain.TriageEvent(nil), l.events[len(l.events)-l.keep:]...)
	}
	l.counts[ev.Kind]++
}

// recent returns up to limit events of kind ("" for all), newest first.
func (l *eventLog) recent(kind string, limit int) []domain.TriageEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.TriageEvent, 0, limit)
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		if kind != "" && l.events[i].Kind != kind {
			continue
		}
		out = append(out, l.events[i])
	}
	return out
}

func (l *eventLog) stats() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

func main() {
	config.LoadDotEnv()
	cfg, err := config.LoadTriageMonitorConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	recent := newEventLog(cfg.Keep)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := mqtt.NewMonitor(mqtt.Config{
		BrokerURL:   cfg.MQTTBrokerURL,
		ClientID:    cfg.MQTTClientID,
		Username:    cfg.MQTTUsername,
		Password:    cfg.MQTTPassword,
		TopicPrefix: cfg.MQTTTopicPrefix,
	}, func(kind string, ev domain.TriageEvent) {
		top := ""
		if len(ev.Predictions) > 0 {
			top = ev.Predictions[0].Disease
		}
		logger.Info("triage event",
			"kind", kind,
			"event_id", ev.EventID,
			"terms", len(ev.MedicalTerms),
			"intent", ev.Intent,
			"top_disease", top,
		)
		recent.add(ev)
	}, logger)
	if err := monitor.Start(ctx); err != nil {
		logger.Error("start triage monitor failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "counts": recent.stats()})
	})
	r.Get("/events", func(w http.ResponseWriter, req *http.Request) {
		kind := req.URL.Query().Get("kind")
		if kind != "" && kind != domain.EventKindChat && kind != domain.EventKindPredict {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown event kind"})
			return
		}
		limit := cfg.Keep
		if raw := req.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "limit must be a positive integer"})
				return
			}
			if n < limit {
				limit = n
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": recent.recent(kind, limit)})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("triage monitor started", "addr", cfg.HTTPAddr, "broker", cfg.MQTTBrokerURL, "prefix", cfg.MQTTTopicPrefix)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
