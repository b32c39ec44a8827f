package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Work is one line item of a budget. Cost is derived from its materials.
type Work struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Order         int             `json:"order" gorm:"column:position;not null;default:0"`
	Name          string          `json:"name" gorm:"not null"`
	EstimatedTime int             `json:"estimated_time"` // days
	Deadline      *datatypes.Date `json:"deadline"`
	Cost          decimal.Decimal `json:"cost" gorm:"type:numeric(12,2);not null;default:0"`
	State         LifecycleState  `json:"state" gorm:"type:varchar(20);not null;default:'Presupuestado'"`
	BudgetID      uint            `json:"budget_id" gorm:"not null;index"`
	Materials     []WorkMaterial  `json:"materials" gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MaterialsCost sums quantity * pinned unit price over the loaded lines.
func (w *Work) MaterialsCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range w.Materials {
		total = total.Add(l.Subtotal())
	}
	return total
}
