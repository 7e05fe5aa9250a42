package mqtt

import (
	"context"
	"encoding/json"
	"log/slog"

	paho "github.com/eclipse/paho.mqtt.golang"

	"sehat/internal/domain"
)

type EventHandler func(kind string, ev domain.TriageEvent)

// Monitor subscribes to every triage event under the topic prefix.
type Monitor struct {
	cfg     Config
	handler EventHandler
	logger  *slog.Logger
	client  paho.Client
}

func NewMonitor(cfg Config, handler EventHandler, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{cfg: cfg, handler: handler, logger: logger}
}

func (m *Monitor) Start(ctx context.Context) error {
	opts := clientOptions(m.cfg)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		m.logger.Error("mqtt connection lost", "error", err)
	})

	m.client = paho.NewClient(opts)
	if token := m.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := m.client.Subscribe(TopicTriageEvents(m.cfg.TopicPrefix), 0, m.handleEvent); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	go func() {
		<-ctx.Done()
		m.client.Disconnect(100)
	}()
	return nil
}

func (m *Monitor) handleEvent(_ paho.Client, msg paho.Message) {
	m.dispatch(msg.Topic(), msg.Payload())
}

func (m *Monitor) dispatch(topic string, payload []byte) {
	kind, err := ParseEventKind(topic, m.cfg.TopicPrefix)
	if err != nil {
		m.logger.Warn("skip invalid triage topic", "topic", topic, "error", err)
		return
	}
	var ev domain.TriageEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		m.logger.Warn("invalid triage payload", "kind", kind, "error", err)
		return
	}
	if ev.Kind == "" {
		ev.Kind = kind
	}
	if ev.Kind != kind {
		m.logger.Warn("triage event kind mismatch", "topic_kind", kind, "payload_kind", ev.Kind)
		return
	}
	m.handler(kind, ev)
}
