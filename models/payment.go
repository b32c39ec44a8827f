package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Payment is recorded against exactly one payable, identified by (PayableType, PayableID).
type Payment struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date        datatypes.Date  `json:"date"`
	Description string          `json:"description"`
	PayableType PayableType     `json:"payable_type" gorm:"type:varchar(20);not null;index:idx_payments_payable,priority:1"`
	PayableID   uint            `json:"payable_id" gorm:"not null;index:idx_payments_payable,priority:2"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
