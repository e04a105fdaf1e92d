// Package main is the entry point for the meatpos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"meatpos/internal/domain/auth"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/catalogs/expense"
	"meatpos/internal/domain/closing"
	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/domain/registers/ledger"
	"meatpos/internal/domain/reports"
	v1 "meatpos/internal/infrastructure/http/v1"
	"meatpos/internal/infrastructure/storage/postgres"
	"meatpos/internal/infrastructure/storage/postgres/auth_repo"
	"meatpos/internal/infrastructure/storage/postgres/catalog_repo"
	"meatpos/internal/infrastructure/storage/postgres/closing_repo"
	"meatpos/internal/infrastructure/storage/postgres/document_repo"
	"meatpos/pkg/logger"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting meatpos server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	conversionRepo := catalog_repo.NewConversionRepo(txManager)
	expenseCategoryRepo := catalog_repo.NewExpenseCategoryRepo(txManager)
	expenseEntryRepo := catalog_repo.NewExpenseEntryRepo(txManager)
	setupRepo := document_repo.NewSetupRepo(txManager)
	billRepo := document_repo.NewBillRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	closingRepo, err := closing_repo.NewClosingRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize closing repository", "error", err)
	}

	// --- Services ---
	conversionService := conversion.NewService(conversionRepo)
	expenseService := expense.NewService(expenseCategoryRepo, expenseEntryRepo)
	setupService := setup.NewService(setupRepo, conversionService)
	billService := bill.NewService(billRepo, setupService, conversionService)
	ledgerService := ledger.NewService(setupService, billRepo, conversionService)
	billService.SetStockChecker(ledgerService)

	closingService := closing.NewService(
		closingRepo,
		setupService,
		billRepo,
		ledgerService,
		expenseService,
		conversionService,
		txManager,
	)
	reportsService := reports.NewService(closingRepo)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:    pool.Pool,
		Logger:  log,
		Version: version,

		JWTValidator: jwtService,

		AuthService:       authService,
		ConversionService: conversionService,
		ExpenseService:    expenseService,
		SetupService:      setupService,
		BillService:       billService,
		LedgerService:     ledgerService,
		ClosingService:    closingService,
		ReportsService:    reportsService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port, "version", version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
