package controllers

import (
	"obras-backend/models"

	"github.com/gofiber/fiber/v2"
)

type CategoryCreateDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty"`
}

type MeasureCreateDTO struct {
	Name         string `json:"name" validate:"required,max=50"`
	Abbreviation string `json:"abbreviation" validate:"omitempty,max=10"`
}

// POST /api/categories
func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var in CategoryCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	category := models.Category{Name: in.Name, Description: in.Description}
	if err := db.Create(&category).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// GET /api/categories
func (h *Handler) GetCategories(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	var categories []models.Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": categories, "message": "success"})
}

// POST /api/measures
func (h *Handler) CreateMeasure(c *fiber.Ctx) error {
	var in MeasureCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	measure := models.Measure{Name: in.Name, Abbreviation: in.Abbreviation}
	if err := db.Create(&measure).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create measure")
	}
	return c.Status(fiber.StatusCreated).JSON(measure)
}

// GET /api/measures
func (h *Handler) GetMeasures(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	var measures []models.Measure
	if err := db.Order("name").Find(&measures).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"measures": measures})
}
