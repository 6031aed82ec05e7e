package main

import (
	"context"

	"github.com/Olatundeadedeji/streamcati/internal/auth"
	"github.com/Olatundeadedeji/streamcati/internal/cache"
	"github.com/Olatundeadedeji/streamcati/internal/config"
	"github.com/Olatundeadedeji/streamcati/internal/contacts"
	"github.com/Olatundeadedeji/streamcati/internal/database"
	"github.com/Olatundeadedeji/streamcati/internal/handler"
	"github.com/Olatundeadedeji/streamcati/internal/importer"
	"github.com/Olatundeadedeji/streamcati/internal/interview"
	"github.com/Olatundeadedeji/streamcati/internal/logger"
	"github.com/Olatundeadedeji/streamcati/internal/metrics"
	"github.com/Olatundeadedeji/streamcati/internal/remote"
	"github.com/Olatundeadedeji/streamcati/internal/repository"
	"github.com/Olatundeadedeji/streamcati/pkg"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type application struct {
	Logger   *zap.Logger
	Config   *config.Config
	Tokens   *auth.Maker
	Registry *prometheus.Registry
	Handler  *handler.Handler
	// ready reports whether the backing services answer.
	ready func(ctx context.Context) error
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded: %s", cfg)

	crypto, err := pkg.NewCrypto(cfg.Crypto.Secret)
	if err != nil {
		sugar.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewInterviewMetrics(reg)

	table := interview.DefaultKeywordTable()
	if cfg.Interview.KeywordsFile != "" {
		if table, err = interview.LoadKeywordTable(cfg.Interview.KeywordsFile); err != nil {
			sugar.Fatal(err)
		}
	}

	h := &handler.Handler{
		Logger:     log,
		Tokens:     auth.NewMaker(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, crypto),
		Matcher:    interview.NewMatcher(table, log, m),
		Metrics:    m,
		Locks:      cache.NewLocks(),
		Normalizer: importer.NewNormalizer(),
		AutoSave:   cfg.Interview.AutoSave,
	}

	var checks []func(ctx context.Context) error

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := database.Connect(ctx, cfg.DB)
		if err != nil {
			sugar.Fatal(err)
		}
		defer pool.Close()
		repo := repository.NewRepository(pool, crypto)
		h.Authenticator = repoAuthenticator{repo: repo}
		h.BackendFor = func(string) handler.Backend { return repo }
		checks = append(checks, pool.Ping)
	default:
		client := remote.NewClient(cfg.Remote.BaseURL, log, remote.WithTimeout(cfg.Remote.Timeout), remote.WithMetrics(m))
		h.Authenticator = remoteAuthenticator{client: client}
		h.BackendFor = func(token string) handler.Backend { return client.WithToken(token) }
	}
	// The shared directory cache is only ever reached through per-request views.
	h.Directory = contacts.NewDirectory(h.BackendFor(""), log)

	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := cache.Ping(ctx, rdb); err != nil {
			sugar.Fatalf("redis unreachable: %v", err)
		}
		defer rdb.Close()
		h.Sessions = cache.NewRedisSessions(rdb, cfg.Redis.SessionTTL)
		checks = append(checks, func(ctx context.Context) error { return cache.Ping(ctx, rdb) })
		sugar.Infow("sessions stored in redis", "addr", cfg.Redis.Addr)
	} else {
		h.Sessions = cache.NewMemorySessions(cfg.Redis.SessionTTL)
	}

	app := &application{
		Logger:   log,
		Config:   cfg,
		Tokens:   h.Tokens,
		Registry: reg,
		Handler:  h,
		ready: func(ctx context.Context) error {
			for _, check := range checks {
				if err := check(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
