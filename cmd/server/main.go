package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/domengo404/GoldEarn-Backend/internal/config"
	"github.com/domengo404/GoldEarn-Backend/internal/handler"
	"github.com/domengo404/GoldEarn-Backend/internal/middleware"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
	"github.com/domengo404/GoldEarn-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	// Tier catalog is seeded by migrations and loaded once at startup.
	catalog, err := service.LoadCatalog(context.Background(), repo)
	if err != nil {
		log.Fatalf("Failed to load tier catalog: %v", err)
	}

	// Create services
	userService := service.NewUserService(repo)
	commissionSvc := service.NewCommissionService(repo)
	taskService := service.NewTaskService(repo, catalog, commissionSvc)
	transactionSvc := service.NewTransactionService(repo, commissionSvc)
	vipSvc := service.NewVIPService(repo, catalog, userService)
	adminSvc := service.NewAdminService(repo, transactionSvc)

	// Create handlers
	h := handler.New(cfg, userService, taskService, transactionSvc, vipSvc, commissionSvc, adminSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/health", h.Health)

	// Public API (no auth required)
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Get("/api/vip/packages", h.GetVIPPackages)
	app.Get("/api/vip/packages/:tier", h.GetVIPPackage)

	// API routes with token authentication
	api := app.Group("/api", middleware.Auth(cfg))

	// User
	api.Get("/user/me", h.GetMe)
	api.Put("/user/profile", h.UpdateProfile)
	api.Post("/user/password", h.ChangePassword)
	api.Post("/user/payment-password", h.SetPaymentPassword)
	api.Get("/user/earnings", h.GetEarnings)

	// Tasks
	api.Get("/tasks/eligibility", h.CanDoTask)
	api.Post("/tasks/complete", h.CompleteTask)
	api.Get("/tasks/history", h.GetTaskHistory)
	api.Get("/tasks/stats", h.GetTaskStats)

	// Transactions
	api.Post("/transactions/deposit", h.RequestDeposit)
	api.Post("/transactions/deposit/:id/receipt", h.AttachReceipt)
	api.Post("/transactions/withdraw", h.RequestWithdrawal)
	api.Get("/transactions", h.GetTransactionHistory)
	api.Get("/transactions/summary", h.GetTransactionSummary)
	api.Get("/balance", h.GetBalance)

	// VIP tiers
	api.Get("/vip/status", h.GetVIPStatus)
	api.Post("/vip/subscribe", h.Subscribe)

	// Referrals
	api.Get("/referral/stats", h.GetReferralStats)
	api.Get("/referral/users", h.GetReferredUsers)

	// Admin panel routes (requires auth + admin check)
	admin := app.Group("/api/admin", middleware.Auth(cfg), middleware.AdminAuth(adminSvc))
	admin.Get("/users", h.AdminListUsers)
	admin.Get("/users/:id", h.AdminGetUser)
	admin.Post("/users/:id/status", h.AdminSetUserActive)
	admin.Get("/transactions/pending", h.AdminListPendingEntries)
	admin.Post("/transactions/:id/approve", h.AdminApproveEntry)
	admin.Post("/transactions/:id/reject", h.AdminRejectEntry)
	admin.Get("/tiers", h.GetVIPPackages)
	admin.Get("/reports", h.AdminGetReport)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
