package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	rediscache "github.com/PabloGalante/farum-oracle/internal/adapters/cache/redis"
	httpadapter "github.com/PabloGalante/farum-oracle/internal/adapters/http"
	"github.com/PabloGalante/farum-oracle/internal/app/conversation"
	"github.com/PabloGalante/farum-oracle/internal/app/persona"
	"github.com/PabloGalante/farum-oracle/internal/app/profile"
	"github.com/PabloGalante/farum-oracle/internal/app/readings"
	"github.com/PabloGalante/farum-oracle/internal/config"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

func main() {
	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	observability.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error("oracle api stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := observability.Logger()

	registry, err := persona.Load(cfg.PersonasFile)
	if err != nil {
		return err
	}

	gateway, err := newGateway(ctx, cfg, registry)
	if err != nil {
		return err
	}

	if cfg.RedisAddr != "" {
		rdb := rediscache.NewClient(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis not reachable, forecasts will not be cached until it is", "addr", cfg.RedisAddr, "error", err)
		}
		log.Info("[CACHE] Using Redis forecast cache", "addr", cfg.RedisAddr)
		gateway = rediscache.NewForecastCache(gateway, rdb)
	}

	stores, err := newStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.close()

	opts := conversation.DefaultOptions()
	opts.ActionDelay = cfg.ActionDelay

	sessions := conversation.NewManager(registry, conversation.Deps{
		Gateway:  gateway,
		Profiles: stores.profiles,
		Readings: stores.readings,
	}, opts)
	defer sessions.CloseAll()

	handler := httpadapter.NewHandler(
		registry,
		sessions,
		readings.NewService(stores.readings),
		profile.NewService(stores.profiles),
	)
	e := httpadapter.NewServer(handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("Oracle API listening", "addr", addr, "mode", cfg.Mode)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
