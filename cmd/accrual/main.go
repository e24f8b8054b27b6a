package main

import (
	"fmt"
	"os"
	"time"

	"yieldvault/internal/database"
	"yieldvault/internal/logger"
	"yieldvault/internal/notify"
	"yieldvault/internal/observability"
	"yieldvault/internal/services"
)

// Runs a single accrual pass over all active investments and exits.
// Scheduling is external (cron, systemd timer); the engine holds no
// timer of its own.
func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Accrual error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	observability.Init()

	db := dbManager.DB()
	ledgerService := services.NewLedgerService(db)
	settingsService := services.NewSettingsService(db)
	referralService := services.NewReferralService(db, ledgerService)
	accrualService := services.NewAccrualService(db, ledgerService, referralService, settingsService, notify.LogNotifier{})

	started := time.Now().UTC()
	report, err := accrualService.RunAccrualPass(started)
	if err != nil {
		return fmt.Errorf("accrual pass failed: %w", err)
	}

	log.Infow("accrual pass finished",
		"processed", report.Processed,
		"credited", report.Credited,
		"completed", report.Completed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"profit_cents", report.ProfitCents,
		"elapsed", time.Since(started).String(),
	)
	return nil
}
