package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"estateportal_backend/internal/notification"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/internal/scheduler"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting reminder worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sales := salesapi.New(cfg, log)
	sender := notification.NewSenderFromConfig(cfg)

	worker, err := scheduler.NewWorker(cfg, sales, sender, log)
	if err != nil {
		log.Error("failed to initialize reminder worker", "error", err)
		panic("failed to initialize reminder worker: " + err.Error())
	}

	worker.Run(ctx)
}
