package services

import (
	"context"
	"fmt"
	"time"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const fullyPaidMessage = "Payment completed, the debt is fully paid"

// PaymentInput is a new payment against one payable.
type PaymentInput struct {
	PayableType models.PayableType
	PayableID   uint
	Amount      decimal.Decimal
	Date        time.Time // zero means today
	Description string
}

// PaymentUpdate edits an existing payment. Nil fields keep their value.
type PaymentUpdate struct {
	Amount      decimal.Decimal
	Date        *time.Time
	Description *string
}

// PaymentResult is the outcome of a settled payment.
type PaymentResult struct {
	Payment       *models.Payment     `json:"payment"`
	Message       string              `json:"message"`
	RemainingDebt decimal.Decimal     `json:"remaining_debt"`
	PaymentState  models.PaymentState `json:"payment_state"`
}

// SettlementEngine applies payments to payables. The debt check, the insert and
// the state transition run in one transaction holding the payable row (and,
// when configured, a distributed lock on the payable), so two concurrent
// payments cannot both pass the overpayment check.
type SettlementEngine struct {
	debts  DebtCalculator
	hook   BalanceHook
	locker Locker
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewSettlementEngine(hook BalanceHook, locker Locker, log logrus.FieldLogger, now func() time.Time) *SettlementEngine {
	return &SettlementEngine{hook: hook, locker: locker, log: log, now: now}
}

// RecordPayment validates amount against the payable's current debt, stores the
// payment and marks the payable paid when the debt reaches exactly zero.
// An overpayment is rejected and leaves everything untouched.
func (e *SettlementEngine) RecordPayment(ctx context.Context, db *gorm.DB, in PaymentInput) (*PaymentResult, error) {
	if _, ok := models.ParsePayableType(string(in.PayableType)); !ok {
		return nil, validationError("unknown payable type %q", in.PayableType)
	}
	if in.PayableID == 0 {
		return nil, validationError("payable_id is required")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, payableLockKey(in.PayableType, in.PayableID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *PaymentResult
	err = repositories.New(db.WithContext(ctx)).Transaction(func(repos *repositories.Repositories) error {
		payable, err := repos.FindPayableForUpdate(in.PayableType, in.PayableID)
		if err != nil {
			return lookupError(string(in.PayableType), in.PayableID, err)
		}

		debt, err := e.debts.CalculateDebt(repos, payable)
		if err != nil {
			return err
		}
		if in.Amount.GreaterThan(debt) {
			return overpaymentError(debt, in.Amount)
		}

		payment := &models.Payment{
			Amount:      in.Amount,
			Date:        e.paymentDate(in.Date),
			Description: in.Description,
			PayableType: in.PayableType,
			PayableID:   in.PayableID,
		}
		if err := repos.Payments.Create(payment); err != nil {
			return persistenceError("create payment", err)
		}

		result, err = e.settle(repos, payable, payment, debt.Sub(in.Amount))
		return err
	})
	if err != nil {
		return nil, asServiceError("record payment", err)
	}

	e.log.WithFields(logrus.Fields{
		"payment_id":     result.Payment.ID,
		"payable_type":   in.PayableType,
		"payable_id":     in.PayableID,
		"amount":         in.Amount.StringFixed(2),
		"remaining_debt": result.RemainingDebt.StringFixed(2),
		"payment_state":  result.PaymentState,
	}).Info("payment recorded")
	return result, nil
}

// UpdatePayment re-runs the settlement check with a new amount. The debt is
// computed without the payment being edited, otherwise its old amount would be
// subtracted twice.
func (e *SettlementEngine) UpdatePayment(ctx context.Context, db *gorm.DB, paymentID uint, in PaymentUpdate) (*PaymentResult, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	repos := repositories.New(db.WithContext(ctx))
	existing, err := repos.Payments.Find(paymentID)
	if err != nil {
		return nil, lookupError("payment", paymentID, err)
	}

	unlock, err := e.locker.Lock(ctx, payableLockKey(existing.PayableType, existing.PayableID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *PaymentResult
	err = repos.Transaction(func(repos *repositories.Repositories) error {
		payable, err := repos.FindPayableForUpdate(existing.PayableType, existing.PayableID)
		if err != nil {
			return lookupError(string(existing.PayableType), existing.PayableID, err)
		}
		payment, err := repos.Payments.FindForUpdate(paymentID)
		if err != nil {
			return lookupError("payment", paymentID, err)
		}

		debt, err := e.debts.DebtExcluding(repos, payable, payment.ID)
		if err != nil {
			return err
		}
		if in.Amount.GreaterThan(debt) {
			return overpaymentError(debt, in.Amount)
		}
		remaining := debt.Sub(in.Amount)
		if !remaining.IsZero() && payable.CurrentPaymentState() == models.PaymentStatePaid {
			return validationError("%s %d is already paid; lowering the payment would leave %s owed",
				payable.PayableType(), payable.PayableID(), remaining.StringFixed(2))
		}

		payment.Amount = in.Amount
		if in.Date != nil {
			payment.Date = datatypes.Date(*in.Date)
		}
		if in.Description != nil {
			payment.Description = *in.Description
		}
		if err := repos.Payments.Update(payment); err != nil {
			return persistenceError("update payment", err)
		}

		result, err = e.settle(repos, payable, payment, remaining)
		return err
	})
	if err != nil {
		return nil, asServiceError("update payment", err)
	}

	e.log.WithFields(logrus.Fields{
		"payment_id":     paymentID,
		"amount":         in.Amount.StringFixed(2),
		"remaining_debt": result.RemainingDebt.StringFixed(2),
	}).Info("payment updated")
	return result, nil
}

// settle moves the payable to Paid when nothing is left to pay and notifies the
// client balance hook for budgets.
func (e *SettlementEngine) settle(repos *repositories.Repositories, payable models.Payable, payment *models.Payment, remaining decimal.Decimal) (*PaymentResult, error) {
	message := fmt.Sprintf("Payment is valid, remaining debt: %s", remaining.StringFixed(2))
	if remaining.IsZero() {
		message = fullyPaidMessage
		if payable.CurrentPaymentState() != models.PaymentStatePaid {
			if err := models.TransitionPaymentState(payable, models.PaymentStatePaid); err != nil {
				return nil, validationError("%s", err.Error())
			}
			if err := repos.SavePaymentState(payable); err != nil {
				return nil, persistenceError("save payment state", err)
			}
			e.log.WithFields(logrus.Fields{
				"payable_type": payable.PayableType(),
				"payable_id":   payable.PayableID(),
			}).Info("payable settled")
		}
	}

	if budget, ok := payable.(*models.Budget); ok {
		if err := e.hook.RecalculateBalance(repos, budget.ClientID); err != nil {
			return nil, persistenceError("recalculate client balance", err)
		}
	}

	return &PaymentResult{
		Payment:       payment,
		Message:       message,
		RemainingDebt: remaining,
		PaymentState:  payable.CurrentPaymentState(),
	}, nil
}

func (e *SettlementEngine) paymentDate(t time.Time) datatypes.Date {
	if t.IsZero() {
		t = e.now()
	}
	return datatypes.Date(t)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("amount must be greater than zero")
	}
	if !utils.FitsScale(amount, 2) {
		return validationError("amount must have at most 2 decimal places")
	}
	return nil
}
