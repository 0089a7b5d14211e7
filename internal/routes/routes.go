package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/konveksi/internal/config"
	"github.com/example/konveksi/internal/handlers"
	"github.com/example/konveksi/internal/middleware"
	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	midtransService := services.NewMidtransService(cfg.MidtransServerKey, cfg.MidtransSnapURL)
	orderService := services.NewOrderService(db, telegramService, cfg.OrderPrefix, cfg.DownPaymentPercent)
	paymentService := services.NewPaymentService(db, telegramService, midtransService, cfg.MidtransServerKey)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	paymentHandler := handlers.NewPaymentHandler(db, paymentService)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public catalog reads
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)

	// Gateway webhook; authenticated by payload signature, not by JWT.
	api.Post("/payments/notification", paymentHandler.Notification)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	// Catalog maintenance
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleOwner)
	protected.Post("/products", staffOnly, productHandler.CreateProduct)
	protected.Put("/products/:id", staffOnly, productHandler.UpdateProduct)
	protected.Delete("/products/:id", staffOnly, productHandler.DeleteProduct)

	// Orders
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Post("/orders/manual",
		middleware.RequireRoles(models.RoleAdmin, models.RoleCashier),
		orderHandler.CreateManualOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id/status", orderHandler.UpdateStatus)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)
	protected.Get("/orders/:id/payments", paymentHandler.ListOrderPayments)

	// Payments
	protected.Post("/payments/checkout", paymentHandler.Checkout)
	protected.Post("/payments/manual",
		middleware.RequireRoles(models.RoleAdmin, models.RoleCashier, models.RoleOwner),
		paymentHandler.ManualPayment)
	protected.Post("/payments/:id/verify",
		middleware.RequireRoles(models.RoleAdmin, models.RoleCashier, models.RoleOwner),
		paymentHandler.VerifyPayment)

	// Admin
	admin := protected.Group("/admin", middleware.RequireRoles(models.RoleAdmin, models.RoleOwner))
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Put("/users/:id/role", adminHandler.UpdateUserRole)
}
