package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/adlens/adlens/internal/app"
	jobmetrics "github.com/adlens/adlens/internal/jobs"
	"github.com/adlens/adlens/internal/platform/cache"
	"github.com/adlens/adlens/internal/reporting"
	"github.com/adlens/adlens/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	client := reporting.NewClient(cfg.ReportAPIBaseURL, reporting.WithLogger(logger))
	reportCache := reporting.NewCache(redisClient, cfg.ReportCacheTTL)
	source := reporting.NewCachedSource(client, reportCache, logger, nil).WithFetchTimeout(cfg.ReportTimeout)
	warmupJob := jobs.NewReportsWarmupJob(source, reportCache, logger, metrics, cfg.ReportTimeout)

	var schedule []jobs.CronRegistration
	if spec := strings.TrimSpace(cfg.WarmupCron); spec != "" && cfg.CacheEnabled() {
		warmupTask, err := jobs.NewReportsWarmupTask(jobs.ReportsWarmupPayload{})
		if err != nil {
			logger.Error("build warmup task", slog.Any("error", err))
			os.Exit(1)
		}
		schedule = append(schedule, jobs.CronRegistration{
			Spec:    spec,
			Task:    warmupTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	} else {
		logger.Info("reports warmup not scheduled", slog.Bool("cache", cfg.CacheEnabled()))
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportsWarmup, Handler: warmupJob.Handle},
		},
		Cron: schedule,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
