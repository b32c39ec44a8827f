package services

import (
	"context"

	"obras-backend/models"
	"obras-backend/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DebtSummary is the read model behind the /debt endpoints.
type DebtSummary struct {
	PayableType  models.PayableType  `json:"payable_type"`
	PayableID    uint                `json:"payable_id"`
	Total        decimal.Decimal     `json:"total"`
	Paid         decimal.Decimal     `json:"paid"`
	Debt         decimal.Decimal     `json:"debt"`
	PaymentState models.PaymentState `json:"payment_state"`
}

// DebtCalculator computes what a payable still owes.
type DebtCalculator struct{}

// CalculateDebt is total(payable) minus every payment recorded against it.
func (DebtCalculator) CalculateDebt(repos *repositories.Repositories, p models.Payable) (decimal.Decimal, error) {
	return debtExcluding(repos, p, 0)
}

// DebtExcluding computes the debt as if paymentID had never been recorded.
func (DebtCalculator) DebtExcluding(repos *repositories.Repositories, p models.Payable, paymentID uint) (decimal.Decimal, error) {
	return debtExcluding(repos, p, paymentID)
}

// Summary reports total, paid and outstanding amounts of one payable.
func (DebtCalculator) Summary(ctx context.Context, db *gorm.DB, payableType models.PayableType, id uint) (*DebtSummary, error) {
	repos := repositories.New(db.WithContext(ctx))
	p, err := repos.FindPayable(payableType, id)
	if err != nil {
		return nil, lookupError(string(payableType), id, err)
	}
	paid, err := repos.Payments.SumByPayable(payableType, id, 0)
	if err != nil {
		return nil, persistenceError("sum payments", err)
	}
	return &DebtSummary{
		PayableType:  payableType,
		PayableID:    id,
		Total:        p.Total(),
		Paid:         paid,
		Debt:         p.Total().Sub(paid),
		PaymentState: p.CurrentPaymentState(),
	}, nil
}

func debtExcluding(repos *repositories.Repositories, p models.Payable, paymentID uint) (decimal.Decimal, error) {
	paid, err := repos.Payments.SumByPayable(p.PayableType(), p.PayableID(), paymentID)
	if err != nil {
		return decimal.Zero, persistenceError("sum payments", err)
	}
	return p.Total().Sub(paid), nil
}
