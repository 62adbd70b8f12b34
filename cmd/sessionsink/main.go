// sessionsink is a development collector for session lifecycle
// notifications. It receives the create/invalidate/rotate posts a
// session.Manager sends through pkg/notify, keeps a capped in-memory view
// served under GET /events, and optionally persists events to Redis,
// Postgres, Mongo or OpenSearch so integrators can exercise a manager
// against a real endpoint locally.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stayware/sessionkit/pkg/config"
	"github.com/stayware/sessionkit/pkg/history"
	"github.com/stayware/sessionkit/pkg/httpserver"
	"github.com/stayware/sessionkit/pkg/keyvalue"
	"github.com/stayware/sessionkit/pkg/logger"
	"github.com/stayware/sessionkit/pkg/mongo"
	"github.com/stayware/sessionkit/pkg/opensearch"
	"github.com/stayware/sessionkit/pkg/pg"
	"github.com/stayware/sessionkit/pkg/redis"
)

type sinkConfig struct {
	Store           string        `env:"SINK_STORE" envDefault:"memory"`          // Store selects the event backend: memory, redis, postgres, mongo or opensearch.
	MaxEvents       int           `env:"SINK_MAX_EVENTS" envDefault:"200"`        // MaxEvents caps the in-memory view and the keyvalue-backed logs.
	SigningSecret   string        `env:"SINK_SIGNING_SECRET"`                     // SigningSecret enables HMAC verification of incoming notifications when set.
	SignatureMaxAge time.Duration `env:"SINK_SIGNATURE_MAX_AGE" envDefault:"5m"`  // SignatureMaxAge bounds the replay window for signed notifications.
	MongoDatabase   string        `env:"SINK_MONGO_DATABASE" envDefault:"sessionsink"`
	SearchIndex     string        `env:"SINK_SEARCH_INDEX" envDefault:"session-events"`
}

func main() {
	ctx := context.Background()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg,
		logger.WithService("sessionsink"),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)
	// Embedded migrations and other helpers log through slog.Default.
	logger.SetAsDefault(log)

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)

	var cfg sinkConfig
	config.MustLoad(&cfg)
	if cfg.Store == "" {
		cfg.Store = "memory"
	}

	store, checks, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize event store", logger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	var recorder *history.Recorder
	if store != nil {
		recorder = history.NewRecorder(store, history.Options{Logger: log})
	}

	s := &sink{
		log:      log,
		ring:     history.NewMemory(cfg.MaxEvents),
		recorder: recorder,
		secret:   cfg.SigningSecret,
		maxAge:   cfg.SignatureMaxAge,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	s.routes(r)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, checks...))

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("Session sink listening",
				"addr", httpCfg.Addr,
				"store", cfg.Store,
				"signed", cfg.SigningSecret != "")
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("Session sink stopped")
		}),
	)

	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "Server stopped with error", logger.Error(err))
	}

	// The server no longer accepts notifications, so the recorder can drain.
	if recorder != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Close(flushCtx); err != nil {
			log.ErrorContext(ctx, "Failed to flush event recorder", logger.Error(err))
		}
	}
}

// buildStore wires the configured backend and returns its store, readiness
// checks and cleanup. A nil store means events stay in memory only.
func buildStore(ctx context.Context, cfg sinkConfig) (history.Store, []func(context.Context) error, func(), error) {
	switch cfg.Store {
	case "memory":
		return nil, nil, func() {}, nil

	case "redis":
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return nil, nil, nil, err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return nil, nil, nil, err
		}
		kv := keyvalue.NewRedis(client, "sessionsink")
		return history.NewKeyvalueStore(kv, cfg.MaxEvents),
			[]func(context.Context) error{redis.Healthcheck(client)},
			func() { _ = client.Close() },
			nil

	case "postgres":
		var pcfg pg.Config
		if err := config.Load(&pcfg); err != nil {
			return nil, nil, nil, err
		}
		pool, err := pg.Connect(ctx, pcfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := keyvalue.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return history.NewKeyvalueStore(keyvalue.NewPostgres(pool), cfg.MaxEvents),
			[]func(context.Context) error{pg.Healthcheck(pool)},
			pool.Close,
			nil

	case "mongo":
		var mcfg mongo.Config
		if err := config.Load(&mcfg); err != nil {
			return nil, nil, nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mcfg, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, nil, err
		}
		return history.NewKeyvalueStore(keyvalue.NewMongo(db, "session_events"), cfg.MaxEvents),
			[]func(context.Context) error{mongo.Healthcheck(db.Client())},
			func() { _ = db.Client().Disconnect(context.Background()) },
			nil

	case "opensearch":
		var ocfg opensearch.Config
		if err := config.Load(&ocfg); err != nil {
			return nil, nil, nil, err
		}
		client, err := opensearch.New(ctx, ocfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return history.NewSearchStore(client, cfg.SearchIndex),
			[]func(context.Context) error{opensearch.Healthcheck(client)},
			func() {},
			nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown SINK_STORE %q", cfg.Store)
	}
}
