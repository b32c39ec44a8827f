package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Material struct {
	Id          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;unique"`
	Description string    `json:"description"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	MeasureID   *uint     `json:"measure_id" gorm:"index"`
	Measure     *Measure  `json:"measure,omitempty" gorm:"foreignKey:MeasureID"`
	CreatedAt   time.Time `json:"created_at"`
}

// Price is an immutable unit price reading for a material.
type Price struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	MaterialID uint            `json:"material_id" gorm:"not null;index:idx_prices_material_recorded,priority:1"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	RecordedAt time.Time       `json:"recorded_at" gorm:"not null;index:idx_prices_material_recorded,priority:2"`
}

// Stock is an immutable stock count for a material, tracked independently of Price.
type Stock struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	MaterialID uint            `json:"material_id" gorm:"not null;index:idx_stocks_material_recorded,priority:1"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:numeric(12,3);not null"`
	RecordedAt time.Time       `json:"recorded_at" gorm:"not null;index:idx_stocks_material_recorded,priority:2"`
}

// WorkMaterial pins a quantity of a material to the price and stock snapshots
// that were current when the line was written.
type WorkMaterial struct {
	WorkID     uint            `json:"work_id" gorm:"primaryKey;autoIncrement:false"`
	MaterialID uint            `json:"material_id" gorm:"primaryKey;autoIncrement:false"`
	Material   Material        `json:"material" gorm:"foreignKey:MaterialID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:numeric(12,3);not null"`
	PriceID    uint            `json:"price_id" gorm:"not null"`
	Price      Price           `json:"price" gorm:"foreignKey:PriceID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	StockID    uint            `json:"stock_id" gorm:"not null"`
	Stock      Stock           `json:"stock" gorm:"foreignKey:StockID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// Subtotal is quantity times the pinned unit price.
func (l WorkMaterial) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.Price.UnitPrice)
}

// InvoiceMaterial has the same shape as WorkMaterial; the price snapshot is the
// one created from the purchase price when the invoice line was recorded.
type InvoiceMaterial struct {
	InvoiceID  uint            `json:"invoice_id" gorm:"primaryKey;autoIncrement:false"`
	MaterialID uint            `json:"material_id" gorm:"primaryKey;autoIncrement:false"`
	Material   Material        `json:"material" gorm:"foreignKey:MaterialID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:numeric(12,3);not null"`
	PriceID    uint            `json:"price_id" gorm:"not null"`
	Price      Price           `json:"price" gorm:"foreignKey:PriceID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	StockID    uint            `json:"stock_id" gorm:"not null"`
	Stock      Stock           `json:"stock" gorm:"foreignKey:StockID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (l InvoiceMaterial) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.Price.UnitPrice)
}
