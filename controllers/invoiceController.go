package controllers

import (
	"errors"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceCreateDTO struct {
	SupplierID uint   `json:"supplier_id" validate:"required"`
	Number     string `json:"number" validate:"required,max=40"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type InvoiceMaterialsDTO struct {
	Materials []InvoiceLineDTO `json:"materials" validate:"dive"`
}

type InvoiceLineDTO struct {
	MaterialID uint            `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"money"`
}

// POST /api/invoices
func (h *Handler) CreateInvoice(c *fiber.Ctx) error {
	var in InvoiceCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	date, err := dateOrToday(in.Date)
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	var supplier models.Supplier
	if err := db.First(&supplier, in.SupplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "supplier does not exist")
		}
		return err
	}

	invoice := models.Invoice{
		Number:       in.Number,
		Date:         date,
		TotalAmount:  decimal.Zero,
		PaymentState: models.PaymentStateDebt,
		SupplierID:   in.SupplierID,
	}
	if err := repositories.New(db).Invoices.Create(&invoice); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create invoice")
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GET /api/invoices
func (h *Handler) GetInvoices(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	var invoices []models.Invoice
	if err := db.Preload("Supplier").Order("date DESC").Order("id DESC").Find(&invoices).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoices": invoices, "message": "success"})
}

// GET /api/invoices/:id
func (h *Handler) GetInvoice(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	repos := repositories.New(db)
	invoice, err := repos.Invoices.Find(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	if err != nil {
		return err
	}
	payments, err := repos.Payments.FindByPayable(models.PayableInvoice, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoice": invoice, "payments": payments})
}

// POST /api/invoices/:id/materials
// Books the purchased materials: new price and stock snapshots plus the invoice total.
func (h *Handler) AttachInvoiceMaterials(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in InvoiceMaterialsDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	lines := make([]services.InvoiceLine, 0, len(in.Materials))
	for _, l := range in.Materials {
		lines = append(lines, services.InvoiceLine{MaterialID: l.MaterialID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	out, err := h.Services.Costs.AttachMaterialsToInvoice(c.UserContext(), db, id, lines)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GET /api/invoices/:id/debt
func (h *Handler) GetInvoiceDebt(c *fiber.Ctx) error {
	return h.debtSummary(c, models.PayableInvoice)
}
