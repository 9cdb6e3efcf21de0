package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/restaurant-recommender/internal/cache/redisstore"
	"github.com/mohammed-shakir/restaurant-recommender/internal/clientprofile"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/config"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/gateway"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/health"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/httpclient"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/observability"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/server"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
	"github.com/mohammed-shakir/restaurant-recommender/internal/logger"
	h3mapper "github.com/mohammed-shakir/restaurant-recommender/internal/mapper/h3"
	"github.com/mohammed-shakir/restaurant-recommender/internal/metrics"
	"github.com/mohammed-shakir/restaurant-recommender/internal/present"
	"github.com/mohammed-shakir/restaurant-recommender/internal/searchevents"
	"github.com/mohammed-shakir/restaurant-recommender/internal/session"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func run() int {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		SampleN:   envInt("LOG_SAMPLE_N", 0),
		Service:   "restaurant-recommender",
		Component: "recommender",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	appLog.Info("starting recommender",
		"addr", cfg.Addr,
		"version", Version,
		"provider", cfg.SearchURL(),
		"translator", cfg.ProfileTranslator,
		"cache", cfg.Cache.Enabled,
		"events", cfg.Events.Enabled)

	p := metrics.Init(metrics.Config{
		Service: "restaurant-recommender",
		Build:   metrics.BuildInfoFromEnv(Version),
	})
	observability.Register(p.Registerer())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := gateway.New(appLog, httpclient.NewOutbound(cfg.SearchTimeout), cfg.SearchURL(), cfg.ProviderAPIKey)
	if err != nil {
		appLog.Error("failed to initialize gateway", "err", err)
		return 1
	}
	var searcher gateway.Searcher = client

	ready := map[string]health.Pinger{}
	if cfg.Cache.Enabled {
		rs, err := redisstore.New(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			appLog.Error("redis unavailable", "addr", cfg.Cache.RedisAddr, "err", err)
			return 1
		}
		defer func() { _ = rs.Close() }()
		searcher = gateway.NewCached(client, rs, cfg.Cache.TTL, cfg.Cache.OpTimeout, appLog)
		ready["redis"] = rs
	}

	tr, err := clientprofile.New(cfg.ProfileTranslator, cfg, appLog, client)
	if err != nil {
		appLog.Error("profile translator setup failed", "err", err)
		return 1
	}

	var onComplete func(context.Context, store.Outcome)
	if cfg.Events.Enabled {
		pub, err := searchevents.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, cfg.Events.Queue, appLog)
		if err != nil {
			appLog.Error("search events disabled", "err", err)
		} else {
			defer func() {
				if err := pub.Close(); err != nil {
					appLog.Warn("search events close", "err", err)
				}
			}()
			onComplete = pub.OnComplete
		}
	}

	defaults := filters.SearchFilters{
		Location: cfg.DefaultLocation,
		Radius:   filters.Int(cfg.DefaultRadius),
	}
	sessions := session.New(cfg.SessionMax, cfg.SessionTTL, func(string) *store.Store {
		return store.New(searcher, store.Options{
			Logger:     appLog,
			Defaults:   defaults,
			Timeout:    cfg.SearchTimeout,
			OnComplete: onComplete,
		})
	})

	deps := server.Deps{
		Gateway:    searcher,
		Translator: tr,
		Sessions:   sessions,
		Ready:      ready,
		MapOptions: present.MapOptions{
			APIKey:     cfg.MapsAPIKey,
			Zoom:       cfg.MapZoom,
			ClusterRes: cfg.MapClusterRes,
			Mapper:     h3mapper.New(),
		},
		Metrics: p.Handler(),
	}

	if err := server.Run(ctx, cfg, appLog, deps); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
