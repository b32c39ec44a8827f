package services_test

import (
	"context"
	"testing"

	"obras-backend/repositories"
	"obras-backend/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshBudgetPrice_CostBeforePrice(t *testing.T) {
	db := newTestDB(t)
	hook := newRecordingHook()
	svc := newServices(t, hook)

	client := newClient(t, db)
	// Stale rollups on purpose: nothing below matches the works.
	budget := newBudget(t, db, client.Id, "20.00", "999.00")
	w1 := newWork(t, db, budget.ID, "Excavación")
	w2 := newWork(t, db, budget.ID, "Hormigonado")
	require.NoError(t, db.Model(w1).Update("cost", dec("55.25")).Error)
	require.NoError(t, db.Model(w2).Update("cost", dec("24.75")).Error)

	got, err := svc.Rollup.RefreshBudgetPrice(context.Background(), db, budget.ID)
	require.NoError(t, err)
	assert.True(t, got.Cost.Equal(dec("80.00")), "cost = %s", got.Cost)
	assert.True(t, got.Price.Equal(dec("100.00")), "price = %s", got.Price)
	assert.True(t, got.Price.Equal(got.Cost.Add(got.Profit)))
	assert.Equal(t, 1, hook.calls[client.Id])

	stored, err := repositories.New(db).Budgets.Find(budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.Cost.Equal(stored.WorksCost()))
	assert.True(t, stored.Price.Equal(dec("100.00")))
}

func TestRefreshBudgetPrice_NoWorks(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)

	budget := newBudget(t, db, newClient(t, db).Id, "35.00", "0")
	got, err := svc.Rollup.RefreshBudgetPrice(context.Background(), db, budget.ID)
	require.NoError(t, err)
	assert.True(t, got.Cost.IsZero())
	assert.True(t, got.Price.Equal(dec("35.00")))
}

func TestRefreshBudgetPrice_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)

	_, err := svc.Rollup.RefreshBudgetPrice(context.Background(), db, 42)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestClientBalance_SubtractsBudgetPayments(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()

	client := newClient(t, db)
	b1 := newBudget(t, db, client.Id, "0", "300.00")
	newBudget(t, db, client.Id, "0", "200.00")

	_, err := svc.Settlement.RecordPayment(ctx, db, services.PaymentInput{
		PayableType: "budget", PayableID: b1.ID, Amount: dec("120.00"),
	})
	require.NoError(t, err)

	balance, err := repositories.New(db).Clients.RecalculateBalance(client.Id)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("380.00")), "balance = %s", balance)
}
