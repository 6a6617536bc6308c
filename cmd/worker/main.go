// Redis Streams filter worker
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"image-filter-engine/internal/config"
	"image-filter-engine/internal/queue"
	"image-filter-engine/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "TOML or YAML configuration file")
	redisAddr := flag.String("redis", "", "Redis address, overrides the configuration")
	workerID := flag.String("id", "", "Worker ID (default: hostname-pid)")
	numWorkers := flag.Int("workers", 4, "Concurrent jobs")
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			initLogger(*debugMode).WithError(err).Fatal("Failed to load configuration")
		}
		cfg = loaded
	}
	if *redisAddr != "" {
		cfg.Redis.Addr = *redisAddr
	}
	if *workerID == "" {
		host, _ := os.Hostname()
		*workerID = fmt.Sprintf("%s-%d", host, os.Getpid())
	}

	logger := initLogger(*debugMode || cfg.Debug)
	logger.WithFields(logrus.Fields{
		"worker_id": *workerID,
		"redis":     cfg.Redis.Addr,
		"stream":    cfg.Redis.JobsStream,
		"workers":   *numWorkers,
	}).Info("Starting filter worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q, err := queue.NewRedisQueue(ctx, cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer q.Close()

	if err := q.EnsureGroups(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to create consumer group")
	}

	worker.NewPool(q, cfg, logger, *workerID, *numWorkers).Run(ctx)
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
