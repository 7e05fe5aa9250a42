package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func clearSehatEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SEHAT_HTTP_ADDR", "LOG_LEVEL", "CORS_ORIGINS", "MAX_BODY_BYTES", "REFERENCE_PATH", "MODEL_PATH",
		"LINGUIST_BASE_URL", "LINGUIST_TIMEOUT_MS", "DB_DSN", "MQTT_BROKER_URL", "MQTT_TOPIC_PREFIX", "REDIS_ADDR", "SCORE_CACHE", "SCORE_CACHE_TTL_SECONDS"} {
		t.Setenv(k, "")
	}
}

func TestLoadSehatServerConfigDefaults(t *testing.T) {
	clearSehatEnv(t)
	cfg, err := LoadSehatServerConfig()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPAddr != ":9020" || cfg.MaxBodyBytes != 65536 || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LinguistTimeout != 1500*time.Millisecond {
		t.Fatalf("linguist timeout=%v", cfg.LinguistTimeout)
	}
	if cfg.ScoreCache != "" || cfg.MQTTTopicPrefix != "sehat" {
		t.Fatalf("cache=%q prefix=%q", cfg.ScoreCache, cfg.MQTTTopicPrefix)
	}
}

func TestLoadSehatServerConfigOverrides(t *testing.T) {
	clearSehatEnv(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("LINGUIST_BASE_URL", "http://linguist:9021/")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SCORE_CACHE_TTL_SECONDS", "30")

	cfg, err := LoadSehatServerConfig()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("log level=%v", cfg.LogLevel)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("origins=%v, want %v", cfg.CORSOrigins, want)
	}
	if cfg.LinguistBaseURL != "http://linguist:9021" {
		t.Fatalf("linguist url=%s", cfg.LinguistBaseURL)
	}
	if cfg.ScoreCache != "redis" || cfg.ScoreCacheTTL != 30*time.Second {
		t.Fatalf("cache=%q ttl=%v, want redis 30s", cfg.ScoreCache, cfg.ScoreCacheTTL)
	}
}

func TestLoadSehatServerConfigRejectsBadCache(t *testing.T) {
	clearSehatEnv(t)
	t.Setenv("SCORE_CACHE", "redis")
	if _, err := LoadSehatServerConfig(); err == nil {
		t.Fatalf("expected error for redis cache without REDIS_ADDR")
	}
	t.Setenv("SCORE_CACHE", "memcached")
	if _, err := LoadSehatServerConfig(); err == nil {
		t.Fatalf("expected error for unknown cache")
	}
	t.Setenv("SCORE_CACHE", "off")
	t.Setenv("REDIS_ADDR", "redis:6379")
	cfg, err := LoadSehatServerConfig()
	if err != nil || cfg.ScoreCache != "" {
		t.Fatalf("cache=%q err=%v, want disabled", cfg.ScoreCache, err)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{"": slog.LevelInfo, "warn": slog.LevelWarn, "Warning": slog.LevelWarn, "error": slog.LevelError, "bogus": slog.LevelInfo}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Fatalf("ParseLogLevel(%q)=%v, want %v", in, got, want)
		}
	}
}
