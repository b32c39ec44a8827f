package models

import "github.com/shopspring/decimal"

// PayableType is the discriminator stored in payments.payable_type.
type PayableType string

const (
	PayableBudget  PayableType = "budget"
	PayableInvoice PayableType = "invoice"
	PayableSalary  PayableType = "salary"
)

func ParsePayableType(s string) (PayableType, bool) {
	switch t := PayableType(s); t {
	case PayableBudget, PayableInvoice, PayableSalary:
		return t, true
	}
	return "", false
}

// Payable is implemented by every entity that can owe money and receive payments.
type Payable interface {
	PayableType() PayableType
	PayableID() uint
	// Total is what the payable owes before any payment.
	Total() decimal.Decimal
	CurrentPaymentState() PaymentState
	SetPaymentState(PaymentState)
}

var (
	_ Payable = (*Budget)(nil)
	_ Payable = (*Invoice)(nil)
	_ Payable = (*Salary)(nil)
)
