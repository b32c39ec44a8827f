package controllers

import (
	"obras-backend/models"

	"github.com/gofiber/fiber/v2"
)

type EmployeeCreateDTO struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	DocumentID  string `json:"document_id" validate:"omitempty,numeric,min=7,max=11"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	Role        string `json:"role" validate:"omitempty,max=64"`
}

// POST /api/employees
func (h *Handler) CreateEmployee(c *fiber.Ctx) error {
	var in EmployeeCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	employee := models.Employee{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DocumentID:  in.DocumentID,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Role:        in.Role,
	}
	if err := db.Create(&employee).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create employee")
	}
	return c.Status(fiber.StatusCreated).JSON(employee)
}

// GET /api/employees
func (h *Handler) GetEmployees(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	var employees []models.Employee
	if err := db.Order("last_name").Order("first_name").Find(&employees).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"employees": employees,
		"message":   "success",
	})
}
