package repositories

import (
	"time"

	"obras-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func (r *MaterialRepository) Create(material *models.Material) error {
	return r.db.Create(material).Error
}

func (r *MaterialRepository) Find(id uint) (*models.Material, error) {
	var material models.Material
	if err := r.db.Preload("Category").Preload("Measure").First(&material, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &material, nil
}

func (r *MaterialRepository) List() ([]models.Material, error) {
	var materials []models.Material
	err := r.db.Preload("Category").Preload("Measure").Order("name").Find(&materials).Error
	return materials, err
}

// FindLatestPrice returns the newest price snapshot or nil when the material has none.
func (r *MaterialRepository) FindLatestPrice(materialID uint) (*models.Price, error) {
	var price models.Price
	err := r.db.Where("material_id = ?", materialID).
		Order("recorded_at DESC").Order("id DESC").
		Limit(1).Find(&price).Error
	if err != nil {
		return nil, err
	}
	if price.ID == 0 {
		return nil, nil
	}
	return &price, nil
}

// FindLatestStock returns the newest stock snapshot or nil when the material has none.
func (r *MaterialRepository) FindLatestStock(materialID uint) (*models.Stock, error) {
	var stock models.Stock
	err := r.db.Where("material_id = ?", materialID).
		Order("recorded_at DESC").Order("id DESC").
		Limit(1).Find(&stock).Error
	if err != nil {
		return nil, err
	}
	if stock.ID == 0 {
		return nil, nil
	}
	return &stock, nil
}

func (r *MaterialRepository) CreatePriceSnapshot(materialID uint, unitPrice decimal.Decimal, at time.Time) (*models.Price, error) {
	price := models.Price{MaterialID: materialID, UnitPrice: unitPrice, RecordedAt: at.UTC()}
	if err := r.db.Create(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *MaterialRepository) CreateStockSnapshot(materialID uint, quantity decimal.Decimal, at time.Time) (*models.Stock, error) {
	stock := models.Stock{MaterialID: materialID, Quantity: quantity, RecordedAt: at.UTC()}
	if err := r.db.Create(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// PriceHistory lists price snapshots, newest first.
func (r *MaterialRepository) PriceHistory(materialID uint) ([]models.Price, error) {
	var prices []models.Price
	err := r.db.Where("material_id = ?", materialID).Order("recorded_at DESC").Order("id DESC").Find(&prices).Error
	return prices, err
}

// StockHistory lists stock snapshots, newest first.
func (r *MaterialRepository) StockHistory(materialID uint) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.Where("material_id = ?", materialID).Order("recorded_at DESC").Order("id DESC").Find(&stocks).Error
	return stocks, err
}
