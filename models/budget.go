package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Budget is a quote for a client. Cost and Price are rollups:
// Cost = sum of its works' cost, Price = Cost + Profit.
type Budget struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	MadeDate     datatypes.Date  `json:"made_date"`
	Description  string          `json:"description"`
	Deadline     *datatypes.Date `json:"deadline"`
	Cost         decimal.Decimal `json:"cost" gorm:"type:numeric(12,2);not null;default:0"`
	Profit       decimal.Decimal `json:"profit" gorm:"type:numeric(12,2);not null;default:0"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
	State        LifecycleState  `json:"state" gorm:"type:varchar(20);not null;default:'Presupuestado'"`
	PaymentState PaymentState    `json:"payment_state" gorm:"type:varchar(10);not null;default:'Deuda'"`
	ClientID     uint            `json:"client_id" gorm:"not null;index"`
	Client       *Client         `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Works        []Work          `json:"works" gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (b *Budget) PayableType() PayableType           { return PayableBudget }
func (b *Budget) PayableID() uint                    { return b.ID }
func (b *Budget) Total() decimal.Decimal             { return b.Price }
func (b *Budget) CurrentPaymentState() PaymentState  { return b.PaymentState }
func (b *Budget) SetPaymentState(state PaymentState) { b.PaymentState = state }

// WorksCost sums the cost of the loaded works.
func (b *Budget) WorksCost() decimal.Decimal {
	total := decimal.Zero
	for _, w := range b.Works {
		total = total.Add(w.Cost)
	}
	return total
}
