package repositories

import (
	"fmt"

	"obras-backend/models"
)

// FindPayableForUpdate resolves a payable by kind and id under a row lock.
func (r *Repositories) FindPayableForUpdate(payableType models.PayableType, id uint) (models.Payable, error) {
	switch payableType {
	case models.PayableBudget:
		budget, err := r.Budgets.FindForUpdate(id)
		if err != nil {
			return nil, err
		}
		return budget, nil
	case models.PayableInvoice:
		invoice, err := r.Invoices.FindForUpdate(id)
		if err != nil {
			return nil, err
		}
		return invoice, nil
	case models.PayableSalary:
		salary, err := r.Salaries.FindForUpdate(id)
		if err != nil {
			return nil, err
		}
		return salary, nil
	}
	return nil, fmt.Errorf("unknown payable type %q", payableType)
}

// SavePaymentState persists only the payment_state column of p.
func (r *Repositories) SavePaymentState(p models.Payable) error {
	return r.db.Model(p).Update("payment_state", p.CurrentPaymentState()).Error
}

// FindPayable resolves a payable by kind and id without locking.
func (r *Repositories) FindPayable(payableType models.PayableType, id uint) (models.Payable, error) {
	switch payableType {
	case models.PayableBudget:
		budget, err := r.Budgets.Find(id)
		if err != nil {
			return nil, err
		}
		return budget, nil
	case models.PayableInvoice:
		invoice, err := r.Invoices.Find(id)
		if err != nil {
			return nil, err
		}
		return invoice, nil
	case models.PayableSalary:
		salary, err := r.Salaries.Find(id)
		if err != nil {
			return nil, err
		}
		return salary, nil
	}
	return nil, fmt.Errorf("unknown payable type %q", payableType)
}
