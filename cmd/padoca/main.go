package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/padoca-erp/padoca-erp/cmd/padoca/cli"
	"github.com/padoca-erp/padoca-erp/internal/app"
	"github.com/padoca-erp/padoca-erp/internal/integration"
	"github.com/padoca-erp/padoca-erp/internal/ledger"
	"github.com/padoca-erp/padoca-erp/internal/observability"
	"github.com/padoca-erp/padoca-erp/internal/platform/cache"
	"github.com/padoca-erp/padoca-erp/internal/recipes"
	"github.com/padoca-erp/padoca-erp/internal/reports"
	"github.com/padoca-erp/padoca-erp/internal/shared"
	"github.com/padoca-erp/padoca-erp/internal/suppliers"
	"github.com/padoca-erp/padoca-erp/jobs"
)

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

	// "padoca jobs ..." runs the queue management helpers instead of the
	// HTTP server.
	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		os.Exit(runJobsCommand(ctx, cfg.RedisAddr, os.Args[2:]))
	}

	logger := app.NewLogger(cfg)

	repos, err := app.BuildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("build repositories", slog.Any("error", err))
		os.Exit(1)
	}
	defer repos.Close()

	// Redis is optional for the API process: without it report reads skip the
	// cache and adjustment events stop enqueueing scans.
	var reportCache *reports.Cache
	var jobClient *jobs.Client
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		reportCache = reports.NewCache(redisClient, cfg.ReportCacheTTL)
		if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}
		jobClient, err = jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Warn("init job client", slog.Any("error", err))
		} else {
			defer func() {
				if err := jobClient.Close(); err != nil {
					logger.Warn("job client close", slog.Any("error", err))
				}
			}()
		}
	}

	auditLogger := shared.NewAuditLogger(logger)
	hooks := integration.NewHooks(reportCache, jobClient, logger)

	ledgerService := ledger.NewService(repos.Ledger, auditLogger, hooks)
	recipeService := recipes.NewService(repos.Recipes, ledgerService, auditLogger)
	supplierService := suppliers.NewService(repos.Suppliers, auditLogger)
	reportService := reports.NewService(ledgerService, reportCache)

	metrics := observability.NewMetrics()

	ledgerHandler := ledger.NewHandler(logger, ledgerService, metrics)
	recipeHandler := recipes.NewHandler(logger, recipeService)
	supplierHandler := suppliers.NewHandler(logger, supplierService)
	reportHandler := reports.NewHandler(logger, reportService)

	var jobHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		LedgerHandler:   ledgerHandler,
		RecipeHandler:   recipeHandler,
		SupplierHandler: supplierHandler,
		ReportHandler:   reportHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("driver", cfg.StorageDriver))
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

func runJobsCommand(ctx context.Context, redisAddr string, args []string) int {
	jobsCLI, err := cli.NewJobsCLI(redisAddr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		_ = jobsCLI.Close()
	}()
	return jobsCLI.Run(ctx, args, os.Stdout, os.Stderr)
}
