package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Salary amount is fixed at creation.
type Salary struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date         datatypes.Date  `json:"date"`
	Active       bool            `json:"active" gorm:"not null;default:true"`
	PaymentState PaymentState    `json:"payment_state" gorm:"type:varchar(10);not null;default:'Deuda'"`
	EmployeeID   uint            `json:"employee_id" gorm:"not null;index"`
	Employee     *Employee       `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *Salary) PayableType() PayableType           { return PayableSalary }
func (s *Salary) PayableID() uint                    { return s.ID }
func (s *Salary) Total() decimal.Decimal             { return s.Amount }
func (s *Salary) CurrentPaymentState() PaymentState  { return s.PaymentState }
func (s *Salary) SetPaymentState(state PaymentState) { s.PaymentState = state }
