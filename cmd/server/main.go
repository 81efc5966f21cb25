package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/neuronotes/internal/config"
	"github.com/Skotchmaster/neuronotes/internal/db"
	"github.com/Skotchmaster/neuronotes/internal/es"
	"github.com/Skotchmaster/neuronotes/internal/httpserver"
	"github.com/Skotchmaster/neuronotes/internal/logging"
	"github.com/Skotchmaster/neuronotes/internal/mykafka"
	"github.com/Skotchmaster/neuronotes/internal/nlp"
	"github.com/Skotchmaster/neuronotes/internal/repo"
	"github.com/Skotchmaster/neuronotes/internal/service"
	"github.com/Skotchmaster/neuronotes/internal/tokens"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	if cfg.UsesDefaultSecret() {
		logger.Warn("default_secret_in_use", "reason", "SECRET_KEY is not set, tokens are signed with a public default")
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("db_init_failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	store := repo.New(gdb)

	var events service.EventPublisher
	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		events = prod
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	notes := &service.NoteService{
		Repo:       store,
		Summarizer: nlp.ExtractiveSummarizer{},
		Extractor:  nlp.FrequencyExtractor{},
		Ranker:     nlp.TFIDFRanker{},
		Events:     events,
		NoteTopic:  cfg.KafkaNotesTopic,
	}
	if cfg.SummarizerURL != "" {
		notes.Summarizer = nlp.NewRemoteSummarizer(cfg.SummarizerURL, cfg.SummarizerToken, cfg.SummarizerTimeout)
		logger.Info("remote_summarizer_enabled", "url", cfg.SummarizerURL)
	}

	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := es.NewClient(esCtx, es.ClientConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, logger)
		if err == nil {
			index := es.NewNoteIndex(client, cfg.ESIndex)
			if err = index.EnsureIndex(esCtx); err == nil {
				notes.Index = index
				if cfg.SearchBackend == "elasticsearch" {
					notes.Scorer = index
				}
			}
		}
		esCancel()
		if err != nil {
			logger.Warn("es_disabled", "error", err)
		}
	}
	if cfg.SearchBackend == "elasticsearch" && notes.Scorer == nil {
		logger.Warn("search_backend_fallback", "reason", "elasticsearch unavailable, using tfidf")
	}

	auth := &service.AuthService{
		Repo:      store,
		Tokens:    tokens.NewManager(cfg.SecretKey, cfg.TokenTTL),
		Events:    events,
		UserTopic: cfg.KafkaUsersTopic,
	}

	e := httpserver.NewEcho(logger)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: auth},
		NotesHandler: &httpserver.NotesHTTP{Svc: notes},
		Ready:        func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	go func() {
		logger.Info("http_server_starting", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	}
	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
