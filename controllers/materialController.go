package controllers

import (
	"errors"
	"time"

	"obras-backend/models"
	"obras-backend/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type MaterialCreateDTO struct {
	Name        string           `json:"name" validate:"required,max=120"`
	Description string           `json:"description" validate:"omitempty"`
	CategoryID  *uint            `json:"category_id" validate:"omitempty,gt=0"`
	MeasureID   *uint            `json:"measure_id" validate:"omitempty,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price" validate:"omitempty,money"`
	Stock       *decimal.Decimal `json:"stock" validate:"omitempty,stock"`
}

type PriceSnapshotDTO struct {
	UnitPrice decimal.Decimal `json:"unit_price" validate:"money"`
}

type StockSnapshotDTO struct {
	Quantity decimal.Decimal `json:"quantity" validate:"stock"`
}

// POST /api/materials
func (h *Handler) CreateMaterial(c *fiber.Ctx) error {
	var in MaterialCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	repos := repositories.New(db)
	material := models.Material{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		MeasureID:   in.MeasureID,
	}
	if err := repos.Materials.Create(&material); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create material")
	}

	// Optional opening snapshots so the material can be used in works right away.
	now := time.Now()
	if in.UnitPrice != nil {
		if _, err := repos.Materials.CreatePriceSnapshot(material.Id, *in.UnitPrice, now); err != nil {
			return err
		}
	}
	if in.Stock != nil {
		if _, err := repos.Materials.CreateStockSnapshot(material.Id, *in.Stock, now); err != nil {
			return err
		}
	}

	out, err := repos.Materials.Find(material.Id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GET /api/materials
func (h *Handler) GetMaterials(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	materials, err := repositories.New(db).Materials.List()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"materials": materials, "message": "success"})
}

// GET /api/materials/:id
// Returns the material with its current price and stock (null when never recorded).
func (h *Handler) GetMaterial(c *fiber.Ctx) error {
	repos, material, err := h.loadMaterial(c)
	if err != nil {
		return err
	}
	price, err := repos.Materials.FindLatestPrice(material.Id)
	if err != nil {
		return err
	}
	stock, err := repos.Materials.FindLatestStock(material.Id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"material":      material,
		"current_price": price,
		"current_stock": stock,
	})
}

// POST /api/materials/:id/prices
func (h *Handler) CreatePriceSnapshot(c *fiber.Ctx) error {
	var in PriceSnapshotDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	repos, material, err := h.loadMaterial(c)
	if err != nil {
		return err
	}
	price, err := repos.Materials.CreatePriceSnapshot(material.Id, in.UnitPrice, time.Now())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(price)
}

// POST /api/materials/:id/stocks
func (h *Handler) CreateStockSnapshot(c *fiber.Ctx) error {
	var in StockSnapshotDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	repos, material, err := h.loadMaterial(c)
	if err != nil {
		return err
	}
	stock, err := repos.Materials.CreateStockSnapshot(material.Id, in.Quantity, time.Now())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(stock)
}

// GET /api/materials/:id/history
func (h *Handler) GetMaterialHistory(c *fiber.Ctx) error {
	repos, material, err := h.loadMaterial(c)
	if err != nil {
		return err
	}
	prices, err := repos.Materials.PriceHistory(material.Id)
	if err != nil {
		return err
	}
	stocks, err := repos.Materials.StockHistory(material.Id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"prices": prices, "stocks": stocks})
}

func (h *Handler) loadMaterial(c *fiber.Ctx) (*repositories.Repositories, *models.Material, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, nil, err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return nil, nil, err
	}
	repos := repositories.New(db)
	material, err := repos.Materials.Find(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "material not found")
	}
	if err != nil {
		return nil, nil, err
	}
	return repos, material, nil
}
