package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"yieldvault/internal/config"
	"yieldvault/internal/database"
	"yieldvault/internal/handlers"
	"yieldvault/internal/logger"
	"yieldvault/internal/middleware"
	"yieldvault/internal/notify"
	"yieldvault/internal/observability"
	"yieldvault/internal/services"
	"yieldvault/internal/validator"
)

// @title           Yieldvault API
// @version         1.0
// @description     Yieldvault is a capital management platform: user balances, fixed-term yield plans, two-level referral commissions, and admin-reviewed deposit and withdrawal workflows.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	observability.Init()
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	notifier := notify.LogNotifier{}
	userService := services.NewUserService(db)
	ledgerService := services.NewLedgerService(db)
	settingsService := services.NewSettingsService(db)
	referralService := services.NewReferralService(db, ledgerService)
	planService := services.NewPlanService(db)
	investmentService := services.NewInvestmentService(db, ledgerService, planService)
	accrualService := services.NewAccrualService(db, ledgerService, referralService, settingsService, notifier)
	depositService := services.NewDepositService(db, ledgerService, referralService, settingsService, notifier)
	withdrawalService := services.NewWithdrawalService(db, ledgerService, notifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, planService)
	depositHandler := handlers.NewDepositHandler(depositService, settingsService, ledgerService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	referralHandler := handlers.NewReferralHandler(referralService)
	adminHandler := handlers.NewAdminHandler(depositService, withdrawalService, ledgerService, settingsService, accrualService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and payout addresses
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/profile/wallet-addresses", authHandler.SaveWalletAddress)
	protected.GET("/profile/wallet-addresses", authHandler.GetWalletAddresses)

	// Plan and investment routes
	protected.GET("/plans", investmentHandler.ListPlans)
	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.OpenInvestment)
	investments.GET("", investmentHandler.GetUserInvestments)
	investments.GET("/:id", investmentHandler.GetInvestmentByID)

	// Deposit and ledger routes
	deposits := protected.Group("/deposits")
	deposits.POST("", depositHandler.RequestDeposit)
	deposits.GET("/addresses", depositHandler.GetDepositAddresses)
	protected.GET("/transactions", depositHandler.GetUserTransactions)

	// Withdrawal routes
	withdrawals := protected.Group("/withdrawals")
	withdrawals.POST("", withdrawalHandler.RequestWithdrawal)
	withdrawals.GET("", withdrawalHandler.GetUserWithdrawals)

	// Referral routes
	protected.GET("/referrals/earnings", referralHandler.GetUserEarnings)

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminRequired())
	admin.GET("/deposits/pending", adminHandler.ListPendingDeposits)
	admin.POST("/deposits/:id/approve", adminHandler.ApproveDeposit)
	admin.POST("/deposits/:id/reject", adminHandler.RejectDeposit)
	admin.GET("/withdrawals/pending", adminHandler.ListPendingWithdrawals)
	admin.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
	admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
	admin.POST("/users/:id/balance", adminHandler.AdjustBalance)
	admin.GET("/users/:id/reconcile", adminHandler.ReconcileBalance)
	admin.GET("/settings", adminHandler.GetSettings)
	admin.PUT("/settings", adminHandler.UpdateSettings)
	admin.POST("/accrual/run", adminHandler.RunAccrual)

	log.Infof("Starting Yieldvault backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
