package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SehatServerConfig struct {
	HTTPAddr         string
	LogLevel         slog.Level
	CORSOrigins      []string
	MaxBodyBytes     int64
	ReferencePath    string
	ModelPath        string
	LinguistBaseURL  string
	LinguistTimeout  time.Duration
	DBDSN            string
	MQTTBrokerURL    string
	MQTTClientID     string
	MQTTUsername     string
	MQTTPassword     string
	MQTTTopicPrefix  string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ScoreCache       string
	ScoreCacheTTL    time.Duration
	EventsQueryLimit int
}

type LinguistServerConfig struct {
	HTTPAddr     string
	LogLevel     slog.Level
	MaxBodyBytes int64
}

type TriageMonitorConfig struct {
	HTTPAddr        string
	LogLevel        slog.Level
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
	Keep            int
}

// LoadDotEnv reads .env from the working directory when there is one.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func LoadSehatServerConfig() (SehatServerConfig, error) {
	cfg := SehatServerConfig{
		HTTPAddr:         getenvDefault("SEHAT_HTTP_ADDR", ":9020"),
		LogLevel:         ParseLogLevel(os.Getenv("LOG_LEVEL")),
		CORSOrigins:      splitList(getenvDefault("CORS_ORIGINS", "http://localhost:3000")),
		MaxBodyBytes:     int64(getenvIntDefault("MAX_BODY_BYTES", 65536)),
		ReferencePath:    strings.TrimSpace(os.Getenv("REFERENCE_PATH")),
		ModelPath:        strings.TrimSpace(os.Getenv("MODEL_PATH")),
		LinguistBaseURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("LINGUIST_BASE_URL")), "/"),
		LinguistTimeout:  time.Duration(getenvIntDefault("LINGUIST_TIMEOUT_MS", 1500)) * time.Millisecond,
		DBDSN:            strings.TrimSpace(os.Getenv("DB_DSN")),
		MQTTBrokerURL:    strings.TrimSpace(os.Getenv("MQTT_BROKER_URL")),
		MQTTClientID:     getenvDefault("MQTT_CLIENT_ID", "sehat-server"),
		MQTTUsername:     os.Getenv("MQTT_USERNAME"),
		MQTTPassword:     os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix:  getenvDefault("MQTT_TOPIC_PREFIX", "sehat"),
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getenvIntDefault("REDIS_DB", 0),
		ScoreCache:       strings.ToLower(getenvDefault("SCORE_CACHE", "")),
		ScoreCacheTTL:    time.Duration(getenvIntDefault("SCORE_CACHE_TTL_SECONDS", 600)) * time.Second,
		EventsQueryLimit: getenvIntDefault("EVENTS_QUERY_LIMIT", 50),
	}

	if cfg.MaxBodyBytes <= 0 {
		return SehatServerConfig{}, fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if cfg.ScoreCache == "" && cfg.RedisAddr != "" {
		cfg.ScoreCache = "redis"
	}
	switch cfg.ScoreCache {
	case "", "off", "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return SehatServerConfig{}, fmt.Errorf("REDIS_ADDR is required when SCORE_CACHE=redis")
		}
	default:
		return SehatServerConfig{}, fmt.Errorf("SCORE_CACHE must be one of off, memory, redis, got %q", cfg.ScoreCache)
	}
	if cfg.ScoreCache == "off" {
		cfg.ScoreCache = ""
	}
	if cfg.MQTTBrokerURL != "" && strings.TrimSpace(cfg.MQTTTopicPrefix) == "" {
		return SehatServerConfig{}, fmt.Errorf("MQTT_TOPIC_PREFIX is required when MQTT_BROKER_URL is set")
	}
	return cfg, nil
}

func LoadLinguistServerConfig() LinguistServerConfig {
	return LinguistServerConfig{
		HTTPAddr:     getenvDefault("LINGUIST_HTTP_ADDR", ":9021"),
		LogLevel:     ParseLogLevel(os.Getenv("LOG_LEVEL")),
		MaxBodyBytes: int64(getenvIntDefault("LINGUIST_MAX_BODY_BYTES", 65536)),
	}
}

func LoadTriageMonitorConfig() (TriageMonitorConfig, error) {
	cfg := TriageMonitorConfig{
		HTTPAddr:        getenvDefault("MONITOR_HTTP_ADDR", ":9022"),
		LogLevel:        ParseLogLevel(os.Getenv("LOG_LEVEL")),
		MQTTBrokerURL:   getenvDefault("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:    getenvDefault("MONITOR_MQTT_CLIENT_ID", "triage-monitor"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "sehat"),
		Keep:            getenvIntDefault("MONITOR_KEEP_EVENTS", 200),
	}
	if cfg.Keep <= 0 {
		return TriageMonitorConfig{}, fmt.Errorf("MONITOR_KEEP_EVENTS must be positive")
	}
	return cfg, nil
}

func ParseLogLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, val string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}
