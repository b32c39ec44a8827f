package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a customer that receives budgets.
// Balance is the outstanding amount over all of the client's budgets; it is only
// written by the balance recalculation hook. Document numbers are optional, so
// the unique index skips blanks.
type Client struct {
	Id          uint            `json:"id" gorm:"primaryKey"`
	FirstName   string          `json:"first_name" gorm:"not null"`
	LastName    string          `json:"last_name" gorm:"not null"`
	DocumentID  string          `json:"document_id" gorm:"index:idx_clients_document_id,unique,where:document_id <> ''"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Address     string          `json:"address"`
	Balance     decimal.Decimal `json:"balance" gorm:"type:numeric(12,2);not null;default:0"`
	Budgets     []Budget        `json:"budgets,omitempty" gorm:"foreignKey:ClientID"`
	CreatedAt   time.Time       `json:"created_at"`
}
