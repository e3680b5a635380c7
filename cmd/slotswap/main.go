package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/slotswap/internal/app"
	"github.com/Freeeeeet/slotswap/internal/config"
	"github.com/Freeeeeet/slotswap/internal/controller"
	"github.com/Freeeeeet/slotswap/internal/controller/handlers"
	"github.com/Freeeeeet/slotswap/internal/httpapi"
	"github.com/Freeeeeet/slotswap/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Service stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting slot swap service",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreDriver),
		zap.Bool("telegram", cfg.TelegramToken != ""),
	)

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	slotService := service.NewSlotService(store, logger.Named("slots"))
	swapService := service.NewSwapService(store, logger.Named("swaps"))

	server := httpapi.NewServer(httpapi.Options{
		Addr:         cfg.HTTPAddr,
		JWTSecret:    []byte(cfg.JWTSecret),
		CORSOrigins:  cfg.CORSOrigins,
		RateLimitRPS: cfg.RateLimitRPS,
	}, slotService, swapService, logger.Named("http"))

	var botController *controller.BotController
	if cfg.TelegramToken != "" {
		botLogger := logger.Named("bot")
		botInstance, err := bot.New(cfg.TelegramToken, bot.WithMiddlewares(handlers.LogUpdates(botLogger)))
		if err != nil {
			return err
		}

		botController = controller.NewBotController(
			botInstance,
			handlers.NewHandlers(slotService, swapService, cfg.BotLocation, botLogger),
			botLogger,
		)
		if err := botController.RegisterHandlers(ctx); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	if botController != nil {
		g.Go(func() error {
			return botController.Start(ctx)
		})
	}

	return g.Wait()
}
