// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"meatpos/internal/domain/auth"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/catalogs/expense"
	"meatpos/internal/domain/closing"
	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/domain/registers/ledger"
	"meatpos/internal/domain/reports"
	"meatpos/internal/infrastructure/http/v1/handlers"
	"meatpos/internal/infrastructure/http/v1/middleware"
	"meatpos/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool    *pgxpool.Pool
	Logger  *logger.Logger
	Version string

	JWTValidator middleware.JWTValidator

	AuthService       *auth.Service
	ConversionService *conversion.Service
	ExpenseService    *expense.Service
	SetupService      *setup.Service
	BillService       *bill.Service
	LedgerService     *ledger.Service
	ClosingService    *closing.Service
	ReportsService    *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	conversionHandler := handlers.NewConversionHandler(base, cfg.ConversionService)
	expenseHandler := handlers.NewExpenseHandler(base, cfg.ExpenseService)
	setupHandler := handlers.NewSetupHandler(base, cfg.SetupService)
	billHandler := handlers.NewBillHandler(base, cfg.BillService)
	stockHandler := handlers.NewStockHandler(base, cfg.LedgerService, cfg.SetupService)
	closingHandler := handlers.NewClosingHandler(base, cfg.ClosingService)
	reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.Login)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/auth/change-password", authHandler.ChangePassword)
			protected.POST("/auth/register", middleware.RequireAdmin(), authHandler.Register)

			factors := protected.Group("/conversion-factors")
			{
				factors.GET("", conversionHandler.List)
				factors.PUT("/:id", conversionHandler.Update)
				factors.GET("/history", conversionHandler.History)
			}

			expenses := protected.Group("/expenses")
			{
				expenses.GET("/categories", expenseHandler.ListCategories)
				expenses.POST("/categories", expenseHandler.CreateCategory)
				expenses.PUT("/categories/:id", expenseHandler.RenameCategory)
				expenses.DELETE("/categories/:id", expenseHandler.DeleteCategory)

				expenses.POST("", expenseHandler.Record)
				expenses.DELETE("/:id", expenseHandler.Remove)
				expenses.GET("/day/:date", expenseHandler.ListForDay)
			}

			days := protected.Group("/days")
			{
				days.POST("", setupHandler.StartDay)
				days.GET("/current", setupHandler.Current)
				days.PUT("/current/rates", setupHandler.UpdateRates)
				days.GET("/:date", setupHandler.GetByDate)

				days.POST("/current/closing", closingHandler.Begin)
				days.DELETE("/current/closing", closingHandler.Cancel)
				days.POST("/current/close", closingHandler.Submit)
				days.GET("/:date/closing", closingHandler.GetByDate)
				days.GET("/:date/archive", closingHandler.GetArchivedDay)
			}

			bills := protected.Group("/bills")
			{
				bills.POST("", billHandler.Create)
				bills.GET("/:id", billHandler.Get)
				bills.POST("/:id/payments", billHandler.RecordPayment)
				bills.PUT("/:id/payment", billHandler.CorrectPayment)
				bills.GET("/day/:date", billHandler.ListForDay)
				bills.GET("/day/:date/outstanding", billHandler.Outstanding)
			}

			stock := protected.Group("/stock")
			{
				stock.GET("/current", stockHandler.Current)
				stock.GET("/:date", stockHandler.ByDate)
			}

			reportsGroup := protected.Group("/reports")
			{
				reportsGroup.GET("/closings", reportsHandler.History)
				reportsGroup.GET("/stats", reportsHandler.Stats)
			}
		}
	}

	return router
}
