package services_test

import (
	"io"
	"testing"
	"time"

	"obras-backend/database"
	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/services"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateTenantSchema(db, "test"))
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fixedClock returns strictly increasing timestamps so snapshot ordering is deterministic.
func fixedClock() func() time.Time {
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func newServices(t *testing.T, hook services.BalanceHook) *services.Services {
	t.Helper()
	return services.New(services.Options{Logger: quietLogger(), Hook: hook, Now: fixedClock()})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// materialWith creates a material with one price and one stock snapshot.
func materialWith(t *testing.T, db *gorm.DB, name, price, stock string) *models.Material {
	t.Helper()
	repos := repositories.New(db)
	m := &models.Material{Name: name}
	require.NoError(t, repos.Materials.Create(m))
	at := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	_, err := repos.Materials.CreatePriceSnapshot(m.Id, dec(price), at)
	require.NoError(t, err)
	_, err = repos.Materials.CreateStockSnapshot(m.Id, dec(stock), at)
	require.NoError(t, err)
	return m
}

func newClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()
	c := &models.Client{FirstName: "Ana", LastName: "Gómez", Balance: decimal.Zero}
	require.NoError(t, repositories.New(db).Clients.Create(c))
	return c
}

func newBudget(t *testing.T, db *gorm.DB, clientID uint, profit, price string) *models.Budget {
	t.Helper()
	b := &models.Budget{
		MadeDate:     date(2025, time.February, 1),
		Description:  "Ampliación cocina",
		Cost:         decimal.Zero,
		Profit:       dec(profit),
		Price:        dec(price),
		State:        models.StateBudgeted,
		PaymentState: models.PaymentStateDebt,
		ClientID:     clientID,
	}
	require.NoError(t, repositories.New(db).Budgets.Create(b))
	return b
}

func newWork(t *testing.T, db *gorm.DB, budgetID uint, name string) *models.Work {
	t.Helper()
	w := &models.Work{Name: name, BudgetID: budgetID, Cost: decimal.Zero, State: models.StateBudgeted}
	require.NoError(t, repositories.New(db).Works.Create(w))
	return w
}

func newInvoice(t *testing.T, db *gorm.DB) *models.Invoice {
	t.Helper()
	s := &models.Supplier{CompanyName: "Corralón Norte", Email: "ventas@corralon.test"}
	require.NoError(t, db.Create(s).Error)
	inv := &models.Invoice{
		Number:       "A-0001",
		Date:         date(2025, time.February, 3),
		TotalAmount:  decimal.Zero,
		PaymentState: models.PaymentStateDebt,
		SupplierID:   s.Id,
	}
	require.NoError(t, repositories.New(db).Invoices.Create(inv))
	return inv
}

func newSalary(t *testing.T, db *gorm.DB, amount string) *models.Salary {
	t.Helper()
	e := &models.Employee{FirstName: "Luis", LastName: "Pérez"}
	require.NoError(t, db.Create(e).Error)
	s := &models.Salary{
		Amount:       dec(amount),
		Date:         date(2025, time.February, 28),
		Active:       true,
		PaymentState: models.PaymentStateDebt,
		EmployeeID:   e.Id,
	}
	require.NoError(t, repositories.New(db).Salaries.Create(s))
	return s
}

func countPayments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&n).Error)
	return n
}

// recordingHook counts balance notifications per client.
type recordingHook struct {
	calls map[uint]int
	inner services.BalanceHook
}

func newRecordingHook() *recordingHook {
	return &recordingHook{calls: map[uint]int{}, inner: services.ClientBalanceHook{}}
}

func (h *recordingHook) RecalculateBalance(repos *repositories.Repositories, clientID uint) error {
	h.calls[clientID]++
	return h.inner.RecalculateBalance(repos, clientID)
}
