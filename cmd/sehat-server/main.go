package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sehat/internal/api"
	"sehat/internal/cache"
	"sehat/internal/config"
	"sehat/internal/db"
	"sehat/internal/dialogue"
	"sehat/internal/linguistic"
	"sehat/internal/mqtt"
	"sehat/internal/nlp"
	"sehat/internal/oracle"
	"sehat/internal/ranker"
	"sehat/internal/reference"
	"sehat/internal/symptom"
	"sehat/internal/triage"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.LoadSehatServerConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref, err := reference.Load(cfg.ReferencePath)
	if err != nil {
		logger.Error("load reference data failed", "error", err)
		os.Exit(1)
	}

	var lang linguistic.Service = linguistic.NewLocal()
	if cfg.LinguistBaseURL != "" {
		lang = linguistic.NewClient(cfg.LinguistBaseURL, cfg.LinguistTimeout)
	}
	normalizer := nlp.NewNormalizer(lang)

	table, err := symptom.NewTable(ref.Symptoms).Rooted(ctx, normalizer)
	if err != nil {
		logger.Error("build symptom table failed", "error", err)
		os.Exit(1)
	}
	engine, err := dialogue.NewEngine(ref)
	if err != nil {
		logger.Error("build dialogue engine failed", "error", err)
		os.Exit(1)
	}

	scorer, scoreCache, err := buildOracle(ctx, cfg, ref, logger)
	if err != nil {
		logger.Error("build scoring model failed", "error", err)
		os.Exit(1)
	}
	if scoreCache != nil {
		defer func() {
			if err := scoreCache.Close(); err != nil {
				logger.Warn("close score cache failed", "error", err)
			}
		}()
	}

	var sinks triage.Fanout
	var events api.EventLister
	if cfg.DBDSN != "" {
		store, err := db.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("connect db failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			logger.Error("migrate db failed", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, store)
		events = store
	}
	if cfg.MQTTBrokerURL != "" {
		pub := mqtt.NewPublisher(mqtt.Config{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, logger)
		if err := pub.Start(ctx); err != nil {
			logger.Error("start mqtt publisher failed", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	svc := triage.New(
		normalizer,
		symptom.NewResolver(table),
		engine,
		ranker.New(scorer, ref.DiseaseSymptoms()),
		sinks,
		logger,
	)

	handler, err := api.NewHandler(svc, ref.Symptoms, api.Options{
		MaxBodyBytes: cfg.MaxBodyBytes,
		Events:       events,
		EventLimit:   cfg.EventsQueryLimit,
	}, logger)
	if err != nil {
		logger.Error("init http handler failed", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handler, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("sehat server started",
			"addr", cfg.HTTPAddr,
			"symptoms", len(ref.Symptoms),
			"diseases", len(ref.Diseases),
			"remote_linguist", cfg.LinguistBaseURL != "",
			"model", modelName(cfg),
			"score_cache", cfg.ScoreCache,
			"sinks", len(sinks),
		)
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

// buildOracle returns the scorer and, when caching is on, the store behind it.
func buildOracle(ctx context.Context, cfg config.SehatServerConfig, ref *reference.Data, logger *slog.Logger) (oracle.Oracle, cache.Store, error) {
	var scorer oracle.Oracle = oracle.NewReferenceModel(ref.Symptoms, ref.Diseases)
	if cfg.ModelPath != "" {
		m, err := oracle.LoadLinearModel(cfg.ModelPath)
		if err != nil {
			return nil, nil, err
		}
		scorer = m
	}

	var store cache.Store
	switch cfg.ScoreCache {
	case "memory":
		s, err := cache.NewStore(cache.StoreTypeMemory)
		if err != nil {
			return nil, nil, err
		}
		store = s
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, cache will retry per request", "addr", cfg.RedisAddr, "error", err)
		}
		s, err := cache.NewStore(cache.StoreTypeRedis, cache.WithRedisClient(client))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		store = s
	default:
		return scorer, nil, nil
	}
	return oracle.NewCached(scorer, store, cfg.ScoreCacheTTL, logger), store, nil
}

func modelName(cfg config.SehatServerConfig) string {
	if cfg.ModelPath != "" {
		return "linear"
	}
	return "reference"
}
