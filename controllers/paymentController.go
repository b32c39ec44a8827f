package controllers

import (
	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/services"
	"obras-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PaymentCreateDTO struct {
	PayableType string          `json:"payable_type" validate:"required,oneof=budget invoice salary"`
	PayableID   uint            `json:"payable_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"money"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description string          `json:"description" validate:"omitempty,max=255"`
}

type PaymentUpdateDTO struct {
	Amount      decimal.Decimal `json:"amount" validate:"money"`
	Date        *string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description *string         `json:"description" validate:"omitempty,max=255"`
}

// POST /api/payments
func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	var in PaymentCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	res, err := h.Services.Settlement.RecordPayment(c.UserContext(), db, services.PaymentInput{
		PayableType: models.PayableType(in.PayableType),
		PayableID:   in.PayableID,
		Amount:      in.Amount,
		Date:        date,
		Description: in.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// PUT /api/payments/:id
func (h *Handler) UpdatePayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in PaymentUpdateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	update := services.PaymentUpdate{Amount: in.Amount, Description: in.Description}
	if in.Date != nil {
		date, err := parseDate(*in.Date)
		if err != nil {
			return err
		}
		if !date.IsZero() {
			update.Date = &date
		}
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	res, err := h.Services.Settlement.UpdatePayment(c.UserContext(), db, id, update)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// GET /api/payments?payable_type=&payable_id=
func (h *Handler) GetPayments(c *fiber.Ctx) error {
	payableType, ok := models.ParsePayableType(c.Query("payable_type"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "payable_type must be budget, invoice or salary")
	}
	payableID, err := utils.ParseID(c.Query("payable_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payable_id")
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	payments, err := repositories.New(db).Payments.FindByPayable(payableType, payableID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"payments": payments})
}
