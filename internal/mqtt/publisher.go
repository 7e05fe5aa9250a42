package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	paho "github.com/eclipse/paho.mqtt.golang"

	"sehat/internal/domain"
)

type Config struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher pushes triage events to {prefix}/triage/{kind} at QoS 0.
type Publisher struct {
	cfg    Config
	client publishClient
	conn   paho.Client
	logger *slog.Logger
}

func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{cfg: cfg, logger: logger}
}

func clientOptions(cfg Config) *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	return opts
}

func (p *Publisher) Start(ctx context.Context) error {
	statusTopic := TopicServerStatus(p.cfg.TopicPrefix, p.cfg.ClientID)
	opts := clientOptions(p.cfg)
	opts.SetWill(statusTopic, "offline", 1, true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		p.logger.Error("mqtt connection lost", "error", err)
	})

	conn := paho.NewClient(opts)
	if token := conn.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := conn.Publish(statusTopic, 1, true, "online"); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	p.conn = conn
	p.client = conn

	go func() {
		<-ctx.Done()
		p.Close()
	}()
	return nil
}

func (p *Publisher) Close() {
	if p.conn == nil || !p.conn.IsConnected() {
		return
	}
	statusTopic := TopicServerStatus(p.cfg.TopicPrefix, p.cfg.ClientID)
	if token := p.conn.Publish(statusTopic, 1, true, "offline"); token.Wait() && token.Error() != nil {
		p.logger.Warn("publish offline status failed", "error", token.Error())
	}
	p.conn.Disconnect(100)
}

func (p *Publisher) Record(ctx context.Context, ev domain.TriageEvent) error {
	if p.client == nil {
		return fmt.Errorf("mqtt publisher not started")
	}
	buf, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	token := p.client.Publish(TopicTriageEvent(p.cfg.TopicPrefix, ev.Kind), 0, false, buf)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
