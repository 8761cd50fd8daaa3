package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/services"
)

// The scheduler runs the recurring goal-transfer tick on a fixed
// interval. It is deployed as a single instance: the transfer engine
// moves real funds, so two concurrent schedulers would double-transfer.
func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	db := dbManager.DB()
	ledgerService := services.NewLedgerService(db)
	categoryService := services.NewCategoryService(db)
	goalService := services.NewGoalService(db, ledgerService, categoryService)
	transferService := services.NewTransferService(db, goalService)

	log.Infow("scheduler started", "interval", appConfig.SchedulerInterval.String())

	// Run once on startup so a restarted scheduler doesn't wait a full
	// interval before catching up.
	runTick(transferService)

	ticker := time.NewTicker(appConfig.SchedulerInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runTick(transferService)
		case sig := <-quit:
			log.Infow("scheduler stopping", "signal", sig.String())
			return nil
		}
	}
}

func runTick(transferService services.TransferServicer) {
	log := logger.Get()

	executed, err := transferService.RunTick(time.Now())
	if err != nil {
		log.Errorw("transfer tick failed", "error", err)
		return
	}
	log.Infow("transfer tick done", "executed", executed)
}
