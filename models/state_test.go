package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStateTransitions(t *testing.T) {
	assert.True(t, PaymentStateDebt.CanTransitionTo(PaymentStatePaid))
	assert.False(t, PaymentStatePaid.CanTransitionTo(PaymentStateDebt))
	assert.False(t, PaymentStatePaid.CanTransitionTo(PaymentStatePaid))
	assert.False(t, PaymentStateDebt.CanTransitionTo(PaymentStateDebt))
	assert.False(t, PaymentState("Parcial").Valid())
}

func TestTransitionPaymentState(t *testing.T) {
	s := &Salary{ID: 4, Amount: decimal.NewFromInt(10), PaymentState: PaymentStateDebt}
	require.NoError(t, TransitionPaymentState(s, PaymentStatePaid))
	assert.Equal(t, PaymentStatePaid, s.PaymentState)

	err := TransitionPaymentState(s, PaymentStateDebt)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "salary", invalid.Entity)
	assert.Equal(t, PaymentStatePaid, s.PaymentState)
}

func TestLifecycleTransitions(t *testing.T) {
	cases := []struct {
		from, to LifecycleState
		ok       bool
	}{
		{StateBudgeted, StateApproved, true},
		{StateBudgeted, StateRejected, true},
		{StateBudgeted, StateInProgress, false},
		{StateApproved, StateInProgress, true},
		{StateApproved, StateBudgeted, false},
		{StateInProgress, StateDelivered, true},
		{StateInProgress, StateCancelled, true},
		{StateDelivered, StateCancelled, false},
		{StateRejected, StateApproved, false},
		{StateCancelled, StateBudgeted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.Nil(t, StateDelivered.NextStates())
}

func TestParsers(t *testing.T) {
	st, ok := ParseLifecycleState("En proceso")
	assert.True(t, ok)
	assert.Equal(t, StateInProgress, st)
	_, ok = ParseLifecycleState("en proceso")
	assert.False(t, ok)

	pt, ok := ParsePayableType("invoice")
	assert.True(t, ok)
	assert.Equal(t, PayableInvoice, pt)
	_, ok = ParsePayableType("Budget")
	assert.False(t, ok)
}

func TestRollupHelpers(t *testing.T) {
	price := Price{UnitPrice: decimal.RequireFromString("12.50")}
	work := Work{Materials: []WorkMaterial{
		{Quantity: decimal.RequireFromString("2"), Price: price},
		{Quantity: decimal.RequireFromString("0.5"), Price: price},
	}}
	assert.True(t, work.MaterialsCost().Equal(decimal.RequireFromString("31.25")))

	budget := Budget{Works: []Work{
		{Cost: decimal.RequireFromString("10.10")},
		{Cost: decimal.RequireFromString("0.90")},
	}}
	assert.True(t, budget.WorksCost().Equal(decimal.NewFromInt(11)))
}
