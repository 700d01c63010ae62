package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campaigndeck/campaigndeck-backend/internal/config"
	"github.com/campaigndeck/campaigndeck-backend/internal/db"
	"github.com/campaigndeck/campaigndeck-backend/internal/handlers"
	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify/bus"
	"github.com/campaigndeck/campaigndeck-backend/internal/observability"
	"github.com/campaigndeck/campaigndeck-backend/internal/platform/slack"
	"github.com/campaigndeck/campaigndeck-backend/internal/repos"
	"github.com/campaigndeck/campaigndeck-backend/internal/server"
	"github.com/campaigndeck/campaigndeck-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "campaigndeck",
		Environment: cfg.Environment,
	})

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Database auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up repos...")
	ledgerRepo := repos.NewLedgerRepo(theDB, log)
	ledgerEventRepo := repos.NewLedgerEventRepo(theDB, log)

	// Notification bus + sink
	log.Info("Setting up notification pipeline...")
	notifyBus, err := bus.New(log, cfg.RedisAddr, cfg.RedisNotifyChannel)
	if err != nil {
		log.Fatal("Notify bus init failed", "error", err)
	}
	defer notifyBus.Close()

	slackClient, err := slack.New(log, slack.ConfigFromEnv(log, cfg.SlackWebhookURL))
	if err != nil {
		log.Fatal("Slack client init failed", "error", err)
	}
	if !slackClient.Enabled() {
		log.Info("Slack webhook not configured, notifications will be dropped")
	}

	dispatcher := services.NewNotificationDispatcher(log, notifyBus, slackClient)
	if err := dispatcher.Start(ctx); err != nil {
		log.Fatal("Notification dispatcher start failed", "error", err)
	}

	// Services
	log.Info("Setting up services...")
	notifier := services.NewLedgerNotifier(log, notifyBus)
	ledgerService := services.NewLedgerService(theDB, log, ledgerRepo, ledgerEventRepo, notifier)

	// Handlers + router
	log.Info("Setting up router...")
	ledgerHandler := handlers.NewLedgerHandler(log, ledgerService)
	router := server.NewRouter(server.RouterConfig{
		ServiceName:   "campaigndeck",
		LedgerHandler: ledgerHandler,
		AllowOrigins:  cfg.AllowOrigins,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
	}

	if otelShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}

	log.Info("Server exited")
}
