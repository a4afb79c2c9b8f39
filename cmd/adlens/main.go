package main

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/adlens/adlens/internal/aggregate"
	"github.com/adlens/adlens/internal/app"
	"github.com/adlens/adlens/internal/dashboard"
	"github.com/adlens/adlens/internal/dashboard/export"
	dashboardhttp "github.com/adlens/adlens/internal/dashboard/http"
	"github.com/adlens/adlens/internal/dashboard/svg"
	"github.com/adlens/adlens/internal/observability"
	"github.com/adlens/adlens/internal/platform/cache"
	"github.com/adlens/adlens/internal/preferences"
	"github.com/adlens/adlens/internal/reporting"
	"github.com/adlens/adlens/internal/shared"
	"github.com/adlens/adlens/internal/view"
	"github.com/adlens/adlens/jobs"
	"github.com/adlens/adlens/report"
)

type lineRenderer struct{}

func (lineRenderer) Lines(width, height int, series []svg.Series, labels []string, opts svg.LineOpts) (template.HTML, error) {
	return svg.Lines(width, height, series, labels, opts)
}

type barRenderer struct{}

func (barRenderer) Bars(width, height int, series []svg.Series, labels []string, opts svg.BarOpts) (template.HTML, error) {
	return svg.Bars(width, height, series, labels, opts)
}

type gaugeRenderer struct{}

func (gaugeRenderer) Gauge(size int, percent float64, opts svg.GaugeOpts) template.HTML {
	return svg.Gauge(size, percent, opts)
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()

	rankOrder, err := aggregate.ParseRankOrder(cfg.RecommendationRankOrder)
	if err != nil {
		logger.Error("parse rank order", slog.Any("error", err))
		os.Exit(1)
	}
	views, err := dashboard.LoadViewConfig(cfg.ViewConfigPath)
	if err != nil {
		logger.Error("load view config", slog.String("path", cfg.ViewConfigPath), slog.Any("error", err))
		os.Exit(1)
	}

	client := reporting.NewClient(cfg.ReportAPIBaseURL,
		reporting.WithLogger(logger),
		reporting.WithObserver(metrics),
	)
	reportCache := reporting.NewCache(redisClient, cfg.ReportCacheTTL)
	source := reporting.NewCachedSource(client, reportCache, logger, metrics).WithFetchTimeout(cfg.ReportTimeout)

	service := dashboard.NewService(reporting.NewReports(source), dashboard.Options{
		TopN:      cfg.TopBrands,
		RankOrder: rankOrder,
		Views:     views,
		Observer:  metrics,
	})

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	pdfClient := report.NewClient(cfg.GotenbergURL, nil)
	reportHandler := report.NewHandler(pdfClient, logger)

	sessionManager := shared.NewSessionManager(redisClient, "adlens_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	prefs := preferences.NewCookieStore(cfg.IsProduction())

	var refresher dashboardhttp.Refresher
	if cfg.CacheEnabled() {
		refresher = source
	}
	dashboardHandler := dashboardhttp.NewHandler(dashboardhttp.Config{
		Logger:         logger,
		Service:        service,
		Templates:      templates,
		Line:           lineRenderer{},
		Bar:            barRenderer{},
		Gauge:          gaugeRenderer{},
		PDF:            &export.PDFExporter{Renderer: pdfClient},
		Preferences:    prefs,
		Refresher:      refresher,
		RequestTimeout: cfg.ReportTimeout,
	})

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		DashboardHandler:   dashboardHandler,
		PreferencesHandler: preferences.NewHandler(prefs, logger),
		ReportHandler:      reportHandler,
		JobHandler:         jobs.NewHandler(inspector, logger),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("reports", client.BaseURL()),
			slog.Bool("cache", cfg.CacheEnabled()),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
