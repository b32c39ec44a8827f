package controllers

import (
	"errors"

	"obras-backend/models"
	"obras-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SupplierCreateDTO struct {
	CompanyName string `json:"company_name" validate:"required,min=1"`
	TaxID       string `json:"tax_id" validate:"omitempty"`
	Address     string `json:"address" validate:"omitempty"`
	City        string `json:"city" validate:"omitempty"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
}

type SupplierUpdateDTO struct {
	TaxID       *string `json:"tax_id" validate:"omitempty"`
	Address     *string `json:"address" validate:"omitempty"`
	City        *string `json:"city" validate:"omitempty"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
}

// POST /api/suppliers
func (h *Handler) CreateSupplier(c *fiber.Ctx) error {
	var in SupplierCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	supplier := models.Supplier{
		CompanyName: in.CompanyName,
		TaxID:       in.TaxID,
		Address:     in.Address,
		City:        in.City,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}
	if err := db.Create(&supplier).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create supplier")
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// GET /api/suppliers
func (h *Handler) GetSuppliers(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	var suppliers []models.Supplier
	if err := db.Order("company_name").Find(&suppliers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"suppliers": suppliers,
		"message":   "success",
	})
}

// PUT /api/suppliers/:id
func (h *Handler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in SupplierUpdateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	// Ensure exists
	var existing models.Supplier
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}
		return err
	}

	if updates := utils.UpdatesFromPtrDTO(&in, nil); len(updates) > 0 {
		if err := db.Model(&models.Supplier{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update supplier")
		}
	}

	var out models.Supplier
	if err := db.First(&out, id).Error; err != nil {
		return err
	}
	return c.JSON(out)
}
