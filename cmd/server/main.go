package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	app "github.com/Lampx83/AI-Portal-sub002/internal/app"
	cache "github.com/Lampx83/AI-Portal-sub002/internal/cache"
	httpx "github.com/Lampx83/AI-Portal-sub002/internal/http"
	store "github.com/Lampx83/AI-Portal-sub002/internal/store"
	ws "github.com/Lampx83/AI-Portal-sub002/internal/ws"
	auth "github.com/Lampx83/AI-Portal-sub002/pkg/auth"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres connection + migrations
	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres connect", "err", err)
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		logger.Error("migrations", "err", err)
		log.Fatal(err)
	}

	// Redis cache for share-token resolution
	tokens, err := cache.NewTokenCache(ctx, cfg, logger)
	if err != nil {
		logger.Error("redis connect", "err", err)
		log.Fatal(err)
	}
	defer tokens.Close()

	// Room hub: one registry for the process, injected into the hub
	j := auth.New(cfg.JWTSecret)
	registry := ws.NewRegistry()
	hub := ws.NewHub(logger, registry, ws.JWTIdentity{JWT: j}, store.NewAccess(pg, tokens))

	// HTTP + WS router
	router := httpx.NewRouter(cfg, logger, hub, pg, j)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	// shutdown
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
