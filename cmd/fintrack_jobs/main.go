package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/agustinvidal/fintrack/internal/adapters/rates"
	"github.com/agustinvidal/fintrack/internal/core/services"
	"github.com/agustinvidal/fintrack/internal/platform/config"
	"github.com/agustinvidal/fintrack/internal/platform/database"
	"github.com/agustinvidal/fintrack/internal/repositories/database/pgsql"
)

// Single-shot job runner for external schedulers (cron, Kubernetes CronJob).
// Each invocation runs the selected jobs once and exits.
func main() {
	refreshRates := flag.Bool("refresh-rates", false, "fetch today's exchange rates for the base currency pairs")
	dueItems := flag.Bool("due-items", false, "execute due auto-debits and post due installments")
	asOfFlag := flag.String("as-of", "", "scan date for due items (YYYY-MM-DD, default today)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if !*refreshRates && !*dueItems {
		logger.Error("No job selected, pass -refresh-rates and/or -due-items")
		os.Exit(2)
	}

	asOf := time.Now()
	if *asOfFlag != "" {
		parsed, err := time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			logger.Error("Invalid -as-of date, expected YYYY-MM-DD", slog.String("value", *asOfFlag))
			os.Exit(2)
		}
		asOf = parsed
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	provider := rates.NewClient(cfg.ExchangeBaseURL, cfg.ExchangeAPIKey, cfg.ExchangeFetchTimeout)
	serviceContainer := services.NewServiceContainer(cfg, repos, provider)

	exitCode := 0

	if *refreshRates {
		summary, err := serviceContainer.RateSvc.RefreshAllRates(ctx)
		if err != nil {
			logger.Error("Rate refresh failed", slog.String("error", err.Error()))
			exitCode = 1
		} else {
			logger.Info("Rate refresh finished",
				slog.Int("updated", summary.Updated),
				slog.Int("failed", summary.Failed))
			for _, e := range summary.Errors {
				logger.Warn("Rate refresh error", slog.String("detail", e))
			}
		}
	}

	if *dueItems {
		summary, err := serviceContainer.DueItemSvc.RunDueItemScan(ctx, asOf)
		if err != nil {
			logger.Error("Due item scan failed", slog.String("error", err.Error()))
			exitCode = 1
		} else {
			logger.Info("Due item scan finished",
				slog.Int("debits_executed", summary.DebitsExecuted),
				slog.Int("installments_posted", summary.InstallmentsPosted),
				slog.Int("failed", summary.Failed))
			for _, e := range summary.Errors {
				logger.Warn("Due item error", slog.String("detail", e))
			}
		}
	}

	os.Exit(exitCode)
}
