package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estateportal_backend/internal/events"
	apphttp "estateportal_backend/internal/http"
	"estateportal_backend/internal/inventory"
	"estateportal_backend/internal/leads"
	"estateportal_backend/internal/notification"
	"estateportal_backend/internal/scheduler"
	"estateportal_backend/platform/cache"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/logger"
	"estateportal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Redis cache is optional; without it the inventory tree is fetched
	// upstream on every request and reminders are disabled.
	var cacheStore *cache.Cache
	if cfg.RedisURL != "" {
		cacheStore, err = cache.New(cfg.RedisURL, cfg.RedisTLSInsecure)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		defer cacheStore.Close()
		log.Info("redis connection established")
	} else {
		log.Warn("REDIS_URL not set, caching and visit reminders disabled")
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	inventoryModule := inventory.NewModule(cfg, cacheStore, log)
	leadsModule := leads.NewModule(cfg, inventoryModule.Service(), eventBus, val, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(cfg, eventBus, log)

	if cacheStore != nil {
		schedulerClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize reminder scheduler", "error", err)
			panic("failed to initialize reminder scheduler: " + err.Error())
		}
		defer schedulerClient.Close()
		scheduler.NewReminderEnqueuer(schedulerClient, cfg.GetVisitReminderLead(), eventBus, log)
		log.Info("visit reminder scheduler initialized", "queue", cfg.GetAsynqQueueName())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Modules: []apphttp.Module{inventoryModule, leadsModule},
	}
	if cacheStore != nil {
		app.Health = cacheStore
	}
	engine := apphttp.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()
	log.Info("server listening", "addr", cfg.HTTPAddr)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
