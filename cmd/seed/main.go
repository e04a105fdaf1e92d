// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"meatpos/internal/core/apperror"
	"meatpos/internal/domain/auth"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/catalogs/expense"
	"meatpos/internal/infrastructure/storage/postgres"
	"meatpos/internal/infrastructure/storage/postgres/auth_repo"
	"meatpos/internal/infrastructure/storage/postgres/catalog_repo"
	"meatpos/pkg/logger"
)

var defaultExpenseCategories = []string{
	"Transport",
	"Feed",
	"Electricity",
	"Wages",
	"Miscellaneous",
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedConversionFactors(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed conversion factors", "error", err)
	}

	if err := seedExpenseCategories(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed expense categories", "error", err)
	}

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedConversionFactors(ctx context.Context, txm *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewConversionRepo(txm)

	existing, err := repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list conversion factors: %w", err)
	}
	if len(existing) > 0 {
		log.Infow("conversion factors already seeded", "count", len(existing))
		return nil
	}

	for _, factor := range conversion.DefaultFactors() {
		if err := repo.Create(ctx, factor); err != nil {
			return fmt.Errorf("create factor %s/%s: %w", factor.Category, factor.Kind, err)
		}
		log.Infow("conversion factor created",
			"category", factor.Category,
			"kind", factor.Kind,
			"value", factor.Value,
		)
	}
	return nil
}

func seedExpenseCategories(ctx context.Context, txm *postgres.TxManager, log *logger.Logger) error {
	service := expense.NewService(
		catalog_repo.NewExpenseCategoryRepo(txm),
		catalog_repo.NewExpenseEntryRepo(txm),
	)

	for _, name := range defaultExpenseCategories {
		if _, err := service.CreateCategory(ctx, name); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeDuplicate {
				continue
			}
			return fmt.Errorf("create expense category %q: %w", name, err)
		}
		log.Infow("expense category created", "name", name)
	}
	return nil
}

func seedAdminUser(ctx context.Context, txm *postgres.TxManager, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@meatpos.local"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	userRepo := auth_repo.NewUserRepo(txm)

	exists, err := userRepo.Exists(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("check admin exists: %w", err)
	}
	if exists {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("seed-only"))
	service := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	user, err := service.Register(ctx, adminEmail, "Administrator", adminPassword, auth.RoleAdmin)
	if err != nil {
		return fmt.Errorf("register admin: %w", err)
	}

	log.Infow("admin user created", "email", user.Email, "user_id", user.ID)
	return nil
}
