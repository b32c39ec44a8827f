package services_test

import (
	"context"
	"testing"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDebt_DispatchesTotalByKind(t *testing.T) {
	db := newTestDB(t)
	repos := repositories.New(db)
	var calc services.DebtCalculator

	budget := newBudget(t, db, newClient(t, db).Id, "0", "500.00")
	invoice := newInvoice(t, db)
	require.NoError(t, db.Model(invoice).Update("total", dec("320.40")).Error)
	invoice.TotalAmount = dec("320.40")
	salary := newSalary(t, db, "850.00")

	require.NoError(t, repos.Payments.Create(&models.Payment{Amount: dec("100.00"), PayableType: models.PayableBudget, PayableID: budget.ID}))
	require.NoError(t, repos.Payments.Create(&models.Payment{Amount: dec("20.40"), PayableType: models.PayableInvoice, PayableID: invoice.ID}))
	require.NoError(t, repos.Payments.Create(&models.Payment{Amount: dec("50.00"), PayableType: models.PayableSalary, PayableID: salary.ID}))

	cases := []struct {
		payable models.Payable
		want    string
	}{
		{budget, "400.00"},
		{invoice, "300.00"},
		{salary, "800.00"},
	}
	for _, tc := range cases {
		got, err := calc.CalculateDebt(repos, tc.payable)
		require.NoError(t, err)
		assert.True(t, got.Equal(dec(tc.want)), "%s debt = %s, want %s", tc.payable.PayableType(), got, tc.want)
	}
}

func TestCalculateDebt_IgnoresOtherKindsWithSameID(t *testing.T) {
	db := newTestDB(t)
	repos := repositories.New(db)
	var calc services.DebtCalculator

	budget := newBudget(t, db, newClient(t, db).Id, "0", "500.00")
	salary := newSalary(t, db, "850.00")
	require.Equal(t, budget.ID, salary.ID)

	require.NoError(t, repos.Payments.Create(&models.Payment{Amount: dec("50.00"), PayableType: models.PayableSalary, PayableID: salary.ID}))
	require.NoError(t, repos.Payments.Create(&models.Payment{Amount: dec("70.00"), PayableType: models.PayableInvoice, PayableID: budget.ID}))

	got, err := calc.CalculateDebt(repos, budget)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("500.00")), "budget debt = %s", got)

	got, err = calc.CalculateDebt(repos, salary)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("800.00")), "salary debt = %s", got)
}

func TestDebtExcluding_IgnoresEditedPayment(t *testing.T) {
	db := newTestDB(t)
	repos := repositories.New(db)
	var calc services.DebtCalculator

	salary := newSalary(t, db, "1000.00")
	first := &models.Payment{Amount: dec("300.00"), PayableType: models.PayableSalary, PayableID: salary.ID}
	second := &models.Payment{Amount: dec("200.00"), PayableType: models.PayableSalary, PayableID: salary.ID}
	require.NoError(t, repos.Payments.Create(first))
	require.NoError(t, repos.Payments.Create(second))

	all, err := calc.CalculateDebt(repos, salary)
	require.NoError(t, err)
	assert.True(t, all.Equal(dec("500.00")))

	without, err := calc.DebtExcluding(repos, salary, first.ID)
	require.NoError(t, err)
	assert.True(t, without.Equal(dec("800.00")))
}

func TestDebtSummary(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()

	salary := newSalary(t, db, "600.00")
	_, err := svc.Settlement.RecordPayment(ctx, db, services.PaymentInput{
		PayableType: models.PayableSalary, PayableID: salary.ID, Amount: dec("150.00"),
	})
	require.NoError(t, err)

	sum, err := svc.Debts.Summary(ctx, db, models.PayableSalary, salary.ID)
	require.NoError(t, err)
	assert.True(t, sum.Total.Equal(dec("600.00")))
	assert.True(t, sum.Paid.Equal(dec("150.00")))
	assert.True(t, sum.Debt.Equal(dec("450.00")))
	assert.Equal(t, models.PaymentStateDebt, sum.PaymentState)

	_, err = svc.Debts.Summary(ctx, db, models.PayableInvoice, 77)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}
