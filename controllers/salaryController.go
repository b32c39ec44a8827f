package controllers

import (
	"errors"

	"obras-backend/models"
	"obras-backend/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalaryCreateDTO struct {
	EmployeeID uint            `json:"employee_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"money"`
	Date       string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// POST /api/salaries
func (h *Handler) CreateSalary(c *fiber.Ctx) error {
	var in SalaryCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	if !in.Amount.IsPositive() {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "amount must be greater than zero")
	}
	date, err := dateOrToday(in.Date)
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	var employee models.Employee
	if err := db.First(&employee, in.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "employee does not exist")
		}
		return err
	}

	salary := models.Salary{
		Amount:       in.Amount,
		Date:         date,
		Active:       true,
		PaymentState: models.PaymentStateDebt,
		EmployeeID:   in.EmployeeID,
	}
	if err := repositories.New(db).Salaries.Create(&salary); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create salary")
	}
	return c.Status(fiber.StatusCreated).JSON(salary)
}

// GET /api/salaries
func (h *Handler) GetSalaries(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	var salaries []models.Salary
	if err := db.Preload("Employee").Order("date DESC").Order("id DESC").Find(&salaries).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"salaries": salaries, "message": "success"})
}

// GET /api/salaries/:id
func (h *Handler) GetSalary(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	repos := repositories.New(db)
	salary, err := repos.Salaries.Find(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "salary not found")
	}
	if err != nil {
		return err
	}
	payments, err := repos.Payments.FindByPayable(models.PayableSalary, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"salary": salary, "payments": payments})
}

// GET /api/salaries/:id/debt
func (h *Handler) GetSalaryDebt(c *fiber.Ctx) error {
	return h.debtSummary(c, models.PayableSalary)
}
