package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice is a supplier purchase. Total is derived from its material lines.
type Invoice struct {
	ID           uint              `json:"id" gorm:"primaryKey"`
	Number       string            `json:"number" gorm:"index"`
	Date         datatypes.Date    `json:"date"`
	TotalAmount  decimal.Decimal   `json:"total" gorm:"column:total;type:numeric(12,2);not null;default:0"`
	PaymentState PaymentState      `json:"payment_state" gorm:"type:varchar(10);not null;default:'Deuda'"`
	SupplierID   uint              `json:"supplier_id" gorm:"not null;index"`
	Supplier     *Supplier         `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Materials    []InvoiceMaterial `json:"materials" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (i *Invoice) PayableType() PayableType           { return PayableInvoice }
func (i *Invoice) PayableID() uint                    { return i.ID }
func (i *Invoice) Total() decimal.Decimal             { return i.TotalAmount }
func (i *Invoice) CurrentPaymentState() PaymentState  { return i.PaymentState }
func (i *Invoice) SetPaymentState(state PaymentState) { i.PaymentState = state }

func (i *Invoice) MaterialsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Materials {
		total = total.Add(l.Subtotal())
	}
	return total
}
