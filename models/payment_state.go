package models

import "fmt"

// PaymentState tracks whether a payable still owes money.
type PaymentState string

const (
	PaymentStateDebt PaymentState = "Deuda"
	PaymentStatePaid PaymentState = "Pago"
)

// Paid is terminal: reopening a settled payable would need payment removal,
// which is not supported.
var paymentTransitions = map[PaymentState][]PaymentState{
	PaymentStateDebt: {PaymentStatePaid},
}

func (s PaymentState) Valid() bool {
	return s == PaymentStateDebt || s == PaymentStatePaid
}

// CanTransitionTo reports whether the state machine allows s -> target.
func (s PaymentState) CanTransitionTo(target PaymentState) bool {
	for _, next := range paymentTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// InvalidTransitionError is returned when a state change is not in the transition table.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %q to %q", e.Entity, e.From, e.To)
}

// TransitionPaymentState moves p to target or fails without touching p.
func TransitionPaymentState(p Payable, target PaymentState) error {
	from := p.CurrentPaymentState()
	if !from.CanTransitionTo(target) {
		return &InvalidTransitionError{Entity: string(p.PayableType()), From: string(from), To: string(target)}
	}
	p.SetPaymentState(target)
	return nil
}
