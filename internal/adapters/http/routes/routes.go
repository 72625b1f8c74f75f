package routes

import (
	"sipinjam/internal/adapters/http/handlers"
	"sipinjam/internal/adapters/http/middleware"
	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/config"
	"sipinjam/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	alatRepo := repositories.NewAlatRepository(db)
	peminjamanRepo := repositories.NewPeminjamanRepository(db)
	pengembalianRepo := repositories.NewPengembalianRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	// Engine services
	auditService := services.NewAuditService(activityRepo)
	ledgerService := services.NewLedgerService(alatRepo, cfg)
	peminjamanService := services.NewPeminjamanService(db, peminjamanRepo, alatRepo, ledgerService, auditService)
	pengembalianService := services.NewPengembalianService(db, peminjamanRepo, pengembalianRepo, ledgerService, auditService, cfg)

	// Surface services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	dashboardService := services.NewDashboardService(alatRepo, peminjamanRepo, userRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	alatHandler := handlers.NewAlatHandler(alatRepo)
	peminjamanHandler := handlers.NewPeminjamanHandler(peminjamanService)
	pengembalianHandler := handlers.NewPengembalianHandler(pengembalianService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	activityHandler := handlers.NewActivityHandler(activityRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api/v1")

	// Auth (stricter rate limit)
	auth := api.Group("/auth", middleware.AuthRateLimiter())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Everything below requires authentication
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	// Users
	protected.Get("/users/me", userHandler.Me)
	protected.Get("/users", middleware.AdminOnly(), userHandler.List)
	protected.Post("/users", middleware.AdminOnly(), userHandler.CreateStaff)

	// Alat
	protected.Get("/alat", alatHandler.List)
	protected.Get("/alat/:id", alatHandler.Get)
	protected.Post("/alat", middleware.AdminOnly(), alatHandler.Create)
	protected.Put("/alat/:id", middleware.AdminOnly(), alatHandler.Update)
	protected.Patch("/alat/:id/status", middleware.AdminOnly(), alatHandler.SetMaintenance)

	// Peminjaman lifecycle
	protected.Post("/peminjaman", peminjamanHandler.Submit)
	protected.Get("/peminjaman/saya", peminjamanHandler.ListMine)
	protected.Get("/peminjaman", middleware.PetugasOrAdmin(), peminjamanHandler.List)
	protected.Get("/peminjaman/:id", peminjamanHandler.Get)
	protected.Post("/peminjaman/:id/approve", middleware.PetugasOrAdmin(), peminjamanHandler.Approve)
	protected.Post("/peminjaman/:id/reject", middleware.PetugasOrAdmin(), peminjamanHandler.Reject)
	protected.Post("/peminjaman/:id/lend", middleware.PetugasOrAdmin(), peminjamanHandler.Lend)

	// Pengembalian
	protected.Post("/peminjaman/:id/pengembalian", middleware.PetugasOrAdmin(), pengembalianHandler.Finalize)
	protected.Get("/peminjaman/:id/pengembalian", pengembalianHandler.GetByPeminjaman)
	protected.Post("/pengembalian/:id/denda", middleware.PetugasOrAdmin(), pengembalianHandler.AddFine)

	// Dashboard & audit trail
	protected.Get("/dashboard", middleware.PetugasOrAdmin(), dashboardHandler.Summary)
	protected.Get("/activities", middleware.AdminOnly(), activityHandler.List)
}
