package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/adlens/adlens/internal/jobs"
	"github.com/adlens/adlens/internal/reporting"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const (
	warmupConcurrency     = 3
	defaultWarmupDeadline = 20 * time.Second
)

// ReportCache is the part of the report cache the warmup drives.
type ReportCache interface {
	Enabled() bool
	Bump(ctx context.Context) (int64, error)
}

// ReportsWarmupJob fetches reports through the caching source so page loads
// find them in Redis.
type ReportsWarmupJob struct {
	Source  reporting.Source
	Cache   ReportCache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	// Timeout bounds each endpoint fetch.
	Timeout time.Duration
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(source reporting.Source, cache ReportCache, logger *slog.Logger, metrics *jobmetrics.Metrics, timeout time.Duration) *ReportsWarmupJob {
	return &ReportsWarmupJob{Source: source, Cache: cache, Logger: logger, Metrics: metrics, Timeout: timeout}
}

// Handle processes TaskReportsWarmup tasks. Every endpoint is attempted; the
// joined failures are returned so Asynq retries the task.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Source == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("reports warmup payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	logger := j.logger()
	if j.Cache == nil || !j.Cache.Enabled() {
		logger.Debug("report cache disabled, skipping warmup")
		return nil
	}

	tracker := j.metrics().Track(TaskReportsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	endpoints, err := warmupEndpoints(payload.Endpoints)
	if err != nil {
		resultErr = err
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.Refresh {
		ver, err := j.Cache.Bump(ctx)
		if err != nil {
			resultErr = fmt.Errorf("bump report cache: %w", err)
			return resultErr
		}
		logger.Info("report cache bumped", slog.Int64("version", ver))
	}

	start := time.Now()
	var (
		mu   sync.Mutex
		errs []error
	)
	g := new(errgroup.Group)
	g.SetLimit(warmupConcurrency)
	for _, endpoint := range endpoints {
		g.Go(func() error {
			err := j.warm(ctx, endpoint)
			j.metrics().AddWarmed(endpoint, err)
			if err != nil {
				logger.Warn("warm report", slog.String("endpoint", endpoint), slog.Any("error", err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	resultErr = errors.Join(errs...)
	logger.Info("completed reports warmup",
		slog.Int("endpoints", len(endpoints)),
		slog.Int("failed", len(errs)),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *ReportsWarmupJob) warm(ctx context.Context, endpoint string) error {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = defaultWarmupDeadline
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := j.Source.FetchArray(fetchCtx, endpoint, nil); err != nil {
		return fmt.Errorf("warm %s: %w", endpoint, err)
	}
	return nil
}

func warmupEndpoints(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return slices.Clone(reporting.StaticEndpoints), nil
	}
	for _, endpoint := range requested {
		if !slices.Contains(reporting.StaticEndpoints, endpoint) {
			return nil, fmt.Errorf("reports warmup: endpoint %q takes parameters or is unknown", endpoint)
		}
	}
	return requested, nil
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportsWarmup))
}

func (j *ReportsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
