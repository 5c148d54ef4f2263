package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/lounge-chat/lounge/config"
	"github.com/lounge-chat/lounge/src/api"
	"github.com/lounge-chat/lounge/src/hub"
	"github.com/lounge-chat/lounge/src/service"
	"github.com/lounge-chat/lounge/src/store"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}
	logger = logger.Level(parseLevel(cfg.LogLevel))

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open message store")
	}

	h := hub.New(st, logger)
	go h.Run()

	svc := service.New(h, st, cfg.MessageLimit, logger)
	a := api.New(h, svc, logger)

	app := fiber.New()
	a.Register(app)

	// /ws is served before Fiber: the upgrade needs the raw request context.
	wsHandler := a.WebsocketHandler()
	appHandler := app.Handler()
	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			if string(ctx.Path()) == "/ws" {
				wsHandler(ctx)
				return
			}
			appHandler(ctx)
		},
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("store", cfg.StoreBackend).Msg("server listening")
		if err := server.ListenAndServe(cfg.Addr()); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	h.Stop()
	if err := st.Close(); err != nil {
		logger.Error().Err(err).Msg("store close")
	}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func openStore(cfg config.Config, logger zerolog.Logger) (store.MessageStore, error) {
	switch cfg.StoreBackend {
	case "redis":
		return store.NewRedis(store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}, logger)
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.NewBadger(cfg.BadgerPath, logger)
	}
}
