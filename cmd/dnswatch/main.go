package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/CBonnell/discord-dns-webhook/internal/config"
	"github.com/CBonnell/discord-dns-webhook/internal/httpapi"
	"github.com/CBonnell/discord-dns-webhook/internal/logging"
	"github.com/CBonnell/discord-dns-webhook/internal/notify"
	"github.com/CBonnell/discord-dns-webhook/internal/repo"
	"github.com/CBonnell/discord-dns-webhook/internal/repo/file"
	"github.com/CBonnell/discord-dns-webhook/internal/repo/postgres"
	"github.com/CBonnell/discord-dns-webhook/internal/resolver"
	"github.com/CBonnell/discord-dns-webhook/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	hosts, err := config.LoadHosts(cfg.ConfigFile)
	if err != nil {
		logger.Fatal("config_load_failed", zap.Error(err))
	}
	logger.Info("config_loaded",
		zap.String("path", cfg.ConfigFile),
		zap.Int("hosts", len(hosts)),
	)

	// Run until we get a kill signal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store repo.ResponseStore
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("postgres_connect_failed", zap.Error(err))
		}
		defer pg.Close()
		store = pg
	} else {
		store = file.New(cfg.CacheFile, logger)
	}

	responses, err := store.Load(ctx)
	if err != nil {
		logger.Fatal("cache_load_failed", zap.Error(err))
	}
	logger.Info("cache_loaded", zap.Int("entries", len(responses)))

	w := scheduler.NewWatcher(
		logger,
		hosts,
		resolver.New(),
		store,
		notify.NewWebhook(),
		scheduler.SystemClock{},
		responses,
	)

	if cfg.Addr != "" {
		api := httpapi.NewServer(logger, hosts, w)
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		go func() {
			if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
				logger.Error("api_serve_failed", zap.Error(err))
			}
		}()
	}

	w.Run(ctx)
}
