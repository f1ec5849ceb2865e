package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	repocache "stackvault/internal/repo/cache"
	"stackvault/internal/worker"
	"stackvault/pkg/cache"
	"stackvault/pkg/config"
	"stackvault/pkg/logger"
	"stackvault/pkg/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	defer log.Sync()

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}
	defer redisClient.Close()

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}
	defer queueClient.Close()

	invalidator := worker.NewStatsInvalidator(repocache.NewStatsCache(redisClient, cfg.StatsCacheTTL), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Statistics worker started")
	if err := queueClient.ConsumeEvents(ctx, invalidator.Handle); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped: %v", err)
		return
	}
	log.Info("Statistics worker exited")
}
