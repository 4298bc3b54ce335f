package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/mertdogan/fleettrack/internal/config"
	"github.com/mertdogan/fleettrack/internal/database"
	"github.com/mertdogan/fleettrack/internal/queue"
	"github.com/mertdogan/fleettrack/internal/queue/workers"
	"github.com/mertdogan/fleettrack/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	st := store.NewPostgres(db)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	})

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypeFeeRecalc, asynq.HandlerFunc(workers.NewFeeWorker(st).ProcessTask))
	registry.Register(queue.TypeSubscriptionSweep, asynq.HandlerFunc(workers.NewSubscriptionWorker(st).ProcessTask))

	// Expired subscriptions are swept on a fixed cadence.
	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register("@every 1h", asynq.NewTask(queue.TypeSubscriptionSweep, nil, asynq.Queue("low"))); err != nil {
		slog.Error("failed to register subscription sweep", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			slog.Error("scheduler error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
