package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shopdesk-backend/controllers"
	"shopdesk-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, h *controllers.Controller, db *gorm.DB) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/register", h.Register)
	api.Post("/login", h.Login)
	api.Post("/logout", h.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to the request TX)
	protected.Use(middlewares.Idempotency(db))

	// Then the per-request transaction for mutating methods
	protected.Use(middlewares.Tx(db))

	// Customers
	protected.Post("/customer", h.CreateCustomer)
	protected.Get("/customers", h.GetCustomers)
	protected.Get("/customer/:id", h.GetCustomer)
	protected.Put("/customer/:id", h.UpdateCustomer)
	protected.Delete("/customer/:id", h.DeleteCustomer)

	// Categories
	protected.Post("/category", h.CreateCategory)
	protected.Get("/categories", h.GetCategories)
	protected.Put("/category/:id", h.UpdateCategory)
	protected.Delete("/category/:id", h.DeleteCategory)

	// Inventory (alert views before the :id route so they don't collide)
	protected.Get("/inventory/alerts/low-stock", h.GetLowStock)
	protected.Get("/inventory/alerts/expiring", h.GetExpiring)
	protected.Post("/inventory", h.CreateInventoryItem)
	protected.Get("/inventory", h.GetInventory)
	protected.Get("/inventory/:id", h.GetInventoryItem)
	protected.Put("/inventory/:id", h.UpdateInventoryItem)
	protected.Delete("/inventory/:id", h.DeleteInventoryItem)
	protected.Put("/inventory/:id/stock", h.UpdateStock)

	// Invoices
	protected.Post("/invoice", h.CreateInvoice)
	protected.Get("/invoices", h.GetInvoices)
	protected.Get("/invoices/stats/summary", h.GetInvoiceStats)
	protected.Get("/invoice/:id", h.GetInvoice)
	protected.Patch("/invoices/:id/status", h.UpdateInvoiceStatus)
	protected.Post("/invoices/:id/pay", h.PayInvoice)
	protected.Delete("/invoices/:id", h.DeleteInvoice)
}
