// Package v1 wires the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"

	"domus/internal/domain/auth"
	"domus/internal/domain/catalogs/apartment"
	"domus/internal/domain/catalogs/building"
	"domus/internal/domain/catalogs/paymentmethod"
	"domus/internal/domain/catalogs/resident"
	"domus/internal/domain/expenses"
	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/domain/fees/payment"
	"domus/internal/domain/ledger"
	"domus/internal/infrastructure/http/v1/handlers"
	"domus/internal/infrastructure/http/v1/middleware"
	"domus/internal/infrastructure/storage/postgres"
	"domus/pkg/logger"
)

// RouterConfig carries everything the router needs. Services are wired
// in cmd/server; the router only builds handlers and routes.
type RouterConfig struct {
	Log  *logger.Logger
	Pool *postgres.Pool

	JWTValidator middleware.JWTValidator

	AuthService    *auth.Service
	Buildings      *building.Service
	Apartments     *apartment.Service
	Residents      *resident.Service
	PaymentMethods *paymentmethod.Service
	Ledger         *ledger.Service
	Fees           *monthlyfee.Service
	Payments       *payment.Service
	Expenses       *expenses.Service

	Development bool
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Log))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")

	// Public auth endpoints
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Everything below requires a valid token
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)

	// Buildings
	buildingHandler := handlers.NewBuildingHandler(base, cfg.Buildings)
	buildings := protected.Group("/buildings")
	RegisterCatalogRoutes(buildings, buildingHandler, "buildings")
	buildings.POST("/:id/refresh", middleware.RequirePermission(auth.PermBuildingsWrite), buildingHandler.Refresh)

	// Apartments
	residentHandler := handlers.NewResidentHandler(base, cfg.Residents)
	apartmentHandler := handlers.NewApartmentHandler(base, cfg.Apartments, cfg.Residents)
	apartments := protected.Group("/apartments")
	RegisterCatalogRoutes(apartments, apartmentHandler, "apartments")
	apartments.GET("/:id/residents", middleware.RequirePermission(auth.PermResidentsRead), apartmentHandler.ListResidents)

	// Residents
	residents := protected.Group("/residents")
	RegisterCatalogRoutes(residents, residentHandler, "residents")
	residents.POST("/:id/main-contact", middleware.RequirePermission(auth.PermResidentsWrite), residentHandler.SetMainContact)

	// Payment methods
	methodHandler := handlers.NewPaymentMethodHandler(base, cfg.PaymentMethods)
	methods := protected.Group("/payment-methods")
	RegisterCatalogRoutes(methods, methodHandler, "payment-methods")

	// Cash inventories
	inventoryHandler := handlers.NewInventoryHandler(base, cfg.Ledger)
	inventories := protected.Group("/inventories")
	inventories.GET("/main", middleware.RequirePermission(auth.PermInventoriesRead), inventoryHandler.GetMain)
	RegisterCatalogRoutes(inventories, inventoryHandler, "inventories")
	inventories.POST("/:id/make-main", middleware.RequirePermission(auth.PermInventoriesWrite), inventoryHandler.MakeMain)

	// Transaction journal
	transactionHandler := handlers.NewTransactionHandler(base, cfg.Ledger)
	transactions := protected.Group("/transactions")
	{
		transactions.GET("", middleware.RequirePermission(auth.PermTransactionsRead), transactionHandler.List)
		transactions.POST("", middleware.RequirePermission(auth.PermTransactionsWrite), transactionHandler.Record)
		transactions.GET("/turnover", middleware.RequirePermission(auth.PermReportsRead), transactionHandler.Turnover)
		transactions.GET("/:id", middleware.RequirePermission(auth.PermTransactionsRead), transactionHandler.Get)
	}

	// Monthly fees
	feeHandler := handlers.NewMonthlyFeeHandler(base, cfg.Fees)
	fees := protected.Group("/fees")
	RegisterCatalogRoutes(fees, feeHandler, "fees")
	fees.GET("/:id/allocations", middleware.RequirePermission(auth.PermFeesRead), feeHandler.GetAllocations)
	fees.POST("/:id/recompute", middleware.RequirePermission(auth.PermFeesWrite), feeHandler.Recompute)

	// Payments
	paymentHandler := handlers.NewPaymentHandler(base, cfg.Payments)
	fees.POST("/:id/generate-payments", middleware.RequirePermission(auth.PermPaymentsWrite), paymentHandler.GenerateForFee)
	payments := protected.Group("/payments")
	{
		payments.GET("", middleware.RequirePermission(auth.PermPaymentsRead), paymentHandler.List)
		payments.POST("/generate", middleware.RequirePermission(auth.PermPaymentsWrite), paymentHandler.Generate)
		payments.POST("/overdue-sweep", middleware.RequirePermission(auth.PermPaymentsWrite), paymentHandler.OverdueSweep)
		payments.GET("/:id", middleware.RequirePermission(auth.PermPaymentsRead), paymentHandler.Get)
		payments.POST("/:id/record", middleware.RequirePermission(auth.PermPaymentsWrite), paymentHandler.Record)
	}

	// Expenses
	expenseHandler := handlers.NewExpenseHandler(base, cfg.Expenses)
	recurring := protected.Group("/expenses/recurring")
	recurring.GET("/payments", middleware.RequirePermission(auth.PermExpensesRead), expenseHandler.ListPayments)
	RegisterCatalogRoutes(recurring, expenseHandler, "expenses")
	recurring.POST("/:id/pay", middleware.RequirePermission(auth.PermExpensesWrite), expenseHandler.Pay)

	oneTime := protected.Group("/expenses/one-time")
	{
		oneTime.GET("", middleware.RequirePermission(auth.PermExpensesRead), expenseHandler.ListOneTime)
		oneTime.POST("", middleware.RequirePermission(auth.PermExpensesWrite), expenseHandler.CreateOneTime)
		oneTime.GET("/:id", middleware.RequirePermission(auth.PermExpensesRead), expenseHandler.GetOneTime)
	}

	// User administration
	users := protected.Group("/users")
	{
		users.GET("", middleware.RequirePermission(auth.PermUsersRead), authHandler.ListUsers)
		users.POST("", middleware.RequirePermission(auth.PermUsersWrite), authHandler.CreateUser)
		users.GET("/:id", middleware.RequirePermission(auth.PermUsersRead), authHandler.GetUser)
		users.PUT("/:id/role", middleware.RequirePermission(auth.PermUsersWrite), authHandler.ChangeUserRole)
	}

	roles := protected.Group("/roles")
	{
		roles.GET("", middleware.RequirePermission(auth.PermUsersRead), authHandler.ListRoles)
		roles.POST("", middleware.RequirePermission(auth.PermUsersWrite), authHandler.CreateRole)
		roles.DELETE("/:id", middleware.RequirePermission(auth.PermUsersWrite), authHandler.DeleteRole)
	}

	return router
}
