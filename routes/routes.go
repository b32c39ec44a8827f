package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"obras-backend/controllers"
	"obras-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, h *controllers.Handler, db *gorm.DB) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", h.Register)
	api.Post("/login", h.Login)
	api.Post("/logout", h.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader(h.Config.JWTSecret))

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency(db, h.Log))

	// Then per-request tenant transaction (pins search_path and commits/rolls back)
	protected.Use(middlewares.TenantTx(db, h.Log))

	// Clients
	protected.Post("/clients", h.CreateClient)
	protected.Get("/clients", h.GetClients)
	protected.Get("/clients/:id", h.GetClient)
	protected.Put("/clients/:id", h.UpdateClient)

	// Suppliers
	protected.Post("/suppliers", h.CreateSupplier)
	protected.Get("/suppliers", h.GetSuppliers)
	protected.Put("/suppliers/:id", h.UpdateSupplier)

	// Employees and salaries
	protected.Post("/employees", h.CreateEmployee)
	protected.Get("/employees", h.GetEmployees)
	protected.Post("/salaries", h.CreateSalary)
	protected.Get("/salaries", h.GetSalaries)
	protected.Get("/salaries/:id", h.GetSalary)
	protected.Get("/salaries/:id/debt", h.GetSalaryDebt)

	// Catalogue
	protected.Post("/categories", h.CreateCategory)
	protected.Get("/categories", h.GetCategories)
	protected.Post("/measures", h.CreateMeasure)
	protected.Get("/measures", h.GetMeasures)
	protected.Post("/materials", h.CreateMaterial)
	protected.Get("/materials", h.GetMaterials)
	protected.Get("/materials/:id", h.GetMaterial)
	protected.Post("/materials/:id/prices", h.CreatePriceSnapshot)
	protected.Post("/materials/:id/stocks", h.CreateStockSnapshot)
	protected.Get("/materials/:id/history", h.GetMaterialHistory)

	// Budgets and works
	protected.Post("/budgets", h.CreateBudget)
	protected.Get("/budgets", h.GetBudgets)
	protected.Get("/budgets/:id", h.GetBudget)
	protected.Put("/budgets/:id/state", h.UpdateBudgetState)
	protected.Get("/budgets/:id/update-price", h.UpdateBudgetPrice)
	protected.Get("/budgets/:id/debt", h.GetBudgetDebt)
	protected.Post("/budgets/:id/works", h.CreateWork)
	protected.Post("/budgets/:id/works/:workId/materials", h.AttachWorkMaterials)
	protected.Put("/works/:id/state", h.UpdateWorkState)

	// Invoices
	protected.Post("/invoices", h.CreateInvoice)
	protected.Get("/invoices", h.GetInvoices)
	protected.Get("/invoices/:id", h.GetInvoice)
	protected.Post("/invoices/:id/materials", h.AttachInvoiceMaterials)
	protected.Get("/invoices/:id/debt", h.GetInvoiceDebt)

	// Payments
	protected.Post("/payments", h.CreatePayment)
	protected.Put("/payments/:id", h.UpdatePayment)
	protected.Get("/payments", h.GetPayments)
}
