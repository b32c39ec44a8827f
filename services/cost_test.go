package services_test

import (
	"context"
	"testing"
	"time"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachMaterialsToWork_RollsUpWorkAndBudget(t *testing.T) {
	db := newTestDB(t)
	hook := newRecordingHook()
	svc := newServices(t, hook)
	ctx := context.Background()

	client := newClient(t, db)
	budget := newBudget(t, db, client.Id, "20.00", "0")
	work := newWork(t, db, budget.ID, "Contrapiso")
	a := materialWith(t, db, "Cemento", "10.00", "100")
	b := materialWith(t, db, "Arena", "25.00", "40")

	got, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{
		{MaterialID: a.Id, Quantity: dec("3")},
		{MaterialID: b.Id, Quantity: dec("2")},
	})
	require.NoError(t, err)

	assert.True(t, got.Cost.Equal(dec("80.00")), "work cost = %s", got.Cost)
	require.Len(t, got.Materials, 2)
	for _, line := range got.Materials {
		assert.NotZero(t, line.PriceID)
		assert.NotZero(t, line.StockID)
	}

	reloaded, err := repositories.New(db).Budgets.Find(budget.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Cost.Equal(dec("80.00")), "budget cost = %s", reloaded.Cost)
	assert.True(t, reloaded.Price.Equal(dec("100.00")), "budget price = %s", reloaded.Price)
	assert.Equal(t, 1, hook.calls[client.Id])

	c, err := repositories.New(db).Clients.Find(client.Id)
	require.NoError(t, err)
	assert.True(t, c.Balance.Equal(dec("100.00")), "client balance = %s", c.Balance)
}

func TestAttachMaterialsToWork_FullResync(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()

	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Muro")
	a := materialWith(t, db, "Ladrillo", "1.50", "1000")
	b := materialWith(t, db, "Cal", "8.00", "50")

	_, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{
		{MaterialID: a.Id, Quantity: dec("200")},
		{MaterialID: b.Id, Quantity: dec("4")},
	})
	require.NoError(t, err)

	got, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{
		{MaterialID: b.Id, Quantity: dec("2")},
	})
	require.NoError(t, err)
	require.Len(t, got.Materials, 1)
	assert.Equal(t, b.Id, got.Materials[0].MaterialID)
	assert.True(t, got.Cost.Equal(dec("16.00")), "work cost = %s", got.Cost)
}

func TestAttachMaterialsToWork_EmptyListClearsCost(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()

	budget := newBudget(t, db, newClient(t, db).Id, "15.00", "0")
	work := newWork(t, db, budget.ID, "Revoque")
	a := materialWith(t, db, "Yeso", "12.00", "30")

	_, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{{MaterialID: a.Id, Quantity: dec("5")}})
	require.NoError(t, err)

	got, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Materials)
	assert.True(t, got.Cost.IsZero())

	reloaded, err := repositories.New(db).Budgets.Find(budget.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Cost.IsZero())
	assert.True(t, reloaded.Price.Equal(dec("15.00")))
}

func TestAttachMaterialsToWork_PinsSnapshotAtAttachTime(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()
	repos := repositories.New(db)

	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Losa")
	a := materialWith(t, db, "Hierro", "10.00", "10")

	first, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{{MaterialID: a.Id, Quantity: dec("3")}})
	require.NoError(t, err)
	pinned := first.Materials[0].PriceID

	_, err = repos.Materials.CreatePriceSnapshot(a.Id, dec("12.00"), time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	unchanged, err := repos.Works.Find(work.ID)
	require.NoError(t, err)
	assert.Equal(t, pinned, unchanged.Materials[0].PriceID)
	assert.True(t, unchanged.Cost.Equal(dec("30.00")))
	assert.True(t, unchanged.Materials[0].Price.UnitPrice.Equal(dec("10.00")))

	again, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{{MaterialID: a.Id, Quantity: dec("3")}})
	require.NoError(t, err)
	assert.NotEqual(t, pinned, again.Materials[0].PriceID)
	assert.True(t, again.Cost.Equal(dec("36.00")))
}

func TestAttachMaterialsToWork_MissingSnapshotAbortsEverything(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()
	repos := repositories.New(db)

	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Pintura")
	a := materialWith(t, db, "Látex", "20.00", "5")

	_, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{{MaterialID: a.Id, Quantity: dec("2")}})
	require.NoError(t, err)

	bare := &models.Material{Name: "Sellador"}
	require.NoError(t, repos.Materials.Create(bare))

	_, err = svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{
		{MaterialID: a.Id, Quantity: dec("7")},
		{MaterialID: bare.Id, Quantity: dec("1")},
	})
	require.Error(t, err)
	assert.Equal(t, services.KindMissingSnapshot, services.KindOf(err))
	assert.Contains(t, err.Error(), "Sellador")

	after, err := repos.Works.Find(work.ID)
	require.NoError(t, err)
	require.Len(t, after.Materials, 1)
	assert.True(t, after.Materials[0].Quantity.Equal(dec("2")))
	assert.True(t, after.Cost.Equal(dec("40.00")))
}

func TestAttachMaterialsToWork_MissingStockSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	repos := repositories.New(db)

	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Aberturas")
	m := &models.Material{Name: "Marco"}
	require.NoError(t, repos.Materials.Create(m))
	_, err := repos.Materials.CreatePriceSnapshot(m.Id, dec("90.00"), time.Now())
	require.NoError(t, err)

	_, err = svc.Costs.AttachMaterialsToWork(context.Background(), db, work.ID, []services.WorkLine{{MaterialID: m.Id, Quantity: dec("1")}})
	assert.Equal(t, services.KindMissingSnapshot, services.KindOf(err))
	assert.Contains(t, err.Error(), "stock")
}

func TestAttachMaterialsToWork_RejectsBadLines(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()

	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Techo")
	a := materialWith(t, db, "Chapa", "30.00", "20")

	cases := []struct {
		name  string
		lines []services.WorkLine
	}{
		{"zero quantity", []services.WorkLine{{MaterialID: a.Id, Quantity: dec("0")}}},
		{"negative quantity", []services.WorkLine{{MaterialID: a.Id, Quantity: dec("-1")}}},
		{"duplicate material", []services.WorkLine{{MaterialID: a.Id, Quantity: dec("1")}, {MaterialID: a.Id, Quantity: dec("2")}}},
		{"missing material id", []services.WorkLine{{Quantity: dec("1")}}},
		{"too many decimals", []services.WorkLine{{MaterialID: a.Id, Quantity: dec("1.0001")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, tc.lines)
			assert.Equal(t, services.KindValidation, services.KindOf(err))
		})
	}
}

func TestAttachMaterialsToWork_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()

	_, err := svc.Costs.AttachMaterialsToWork(ctx, db, 999, nil)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))

	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Zanja")
	_, err = svc.Costs.AttachMaterialsToWork(ctx, db, work.ID, []services.WorkLine{{MaterialID: 404, Quantity: dec("1")}})
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestAttachMaterialsToInvoice_RecordsSnapshotsAndTotal(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()
	repos := repositories.New(db)

	invoice := newInvoice(t, db)
	a := materialWith(t, db, "Cemento", "10.00", "100")
	b := materialWith(t, db, "Arena", "25.00", "40")

	got, err := svc.Costs.AttachMaterialsToInvoice(ctx, db, invoice.ID, []services.InvoiceLine{
		{MaterialID: a.Id, Quantity: dec("10"), UnitPrice: dec("9.50")},
		{MaterialID: b.Id, Quantity: dec("4"), UnitPrice: dec("26.25")},
	})
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(dec("200.00")), "invoice total = %s", got.TotalAmount)
	require.Len(t, got.Materials, 2)

	latestPrice, err := repos.Materials.FindLatestPrice(a.Id)
	require.NoError(t, err)
	assert.True(t, latestPrice.UnitPrice.Equal(dec("9.50")))
	latestStock, err := repos.Materials.FindLatestStock(a.Id)
	require.NoError(t, err)
	assert.True(t, latestStock.Quantity.Equal(dec("110")), "stock = %s", latestStock.Quantity)

	history, err := repos.Materials.PriceHistory(a.Id)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// Resync: A goes from 10 to 6 units, B is dropped.
	got, err = svc.Costs.AttachMaterialsToInvoice(ctx, db, invoice.ID, []services.InvoiceLine{
		{MaterialID: a.Id, Quantity: dec("6"), UnitPrice: dec("9.50")},
	})
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(dec("57.00")))

	latestStock, err = repos.Materials.FindLatestStock(a.Id)
	require.NoError(t, err)
	assert.True(t, latestStock.Quantity.Equal(dec("106")), "stock = %s", latestStock.Quantity)
	latestStock, err = repos.Materials.FindLatestStock(b.Id)
	require.NoError(t, err)
	assert.True(t, latestStock.Quantity.Equal(dec("40")), "stock = %s", latestStock.Quantity)
}

func TestAttachMaterialsToInvoice_MissingSnapshotLeavesTotal(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	repos := repositories.New(db)

	invoice := newInvoice(t, db)
	bare := &models.Material{Name: "Membrana"}
	require.NoError(t, repos.Materials.Create(bare))

	_, err := svc.Costs.AttachMaterialsToInvoice(context.Background(), db, invoice.ID, []services.InvoiceLine{
		{MaterialID: bare.Id, Quantity: dec("3"), UnitPrice: dec("45.00")},
	})
	require.Error(t, err)
	assert.Equal(t, services.KindMissingSnapshot, services.KindOf(err))

	after, err := repos.Invoices.Find(invoice.ID)
	require.NoError(t, err)
	assert.True(t, after.TotalAmount.IsZero())
	assert.Empty(t, after.Materials)

	history, err := repos.Materials.PriceHistory(bare.Id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAttachMaterialsToInvoice_RejectsNegativePrice(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)

	invoice := newInvoice(t, db)
	a := materialWith(t, db, "Cemento", "10.00", "100")

	_, err := svc.Costs.AttachMaterialsToInvoice(context.Background(), db, invoice.ID, []services.InvoiceLine{
		{MaterialID: a.Id, Quantity: dec("1"), UnitPrice: dec("-1")},
	})
	assert.Equal(t, services.KindValidation, services.KindOf(err))
}

func TestAttachMaterialsToWork_RoundsCostToCents(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)

	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Junta")
	a := materialWith(t, db, "Sellador", "10.01", "10")

	// 0.125 * 10.01 = 1.25125
	got, err := svc.Costs.AttachMaterialsToWork(context.Background(), db, work.ID, []services.WorkLine{
		{MaterialID: a.Id, Quantity: dec("0.125")},
	})
	require.NoError(t, err)
	assert.True(t, got.Cost.Equal(dec("1.25")), "work cost = %s", got.Cost)

	reloaded, err := repositories.New(db).Budgets.Find(budget.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Cost.Equal(dec("1.25")), "budget cost = %s", reloaded.Cost)
}

func TestAttachMaterialsToInvoice_RejectsResyncBelowZeroStock(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()
	repos := repositories.New(db)

	invoice := newInvoice(t, db)
	a := materialWith(t, db, "Cemento", "10.00", "100")

	_, err := svc.Costs.AttachMaterialsToInvoice(ctx, db, invoice.ID, []services.InvoiceLine{
		{MaterialID: a.Id, Quantity: dec("10"), UnitPrice: dec("9.50")},
	})
	require.NoError(t, err)

	// Manual correction after the purchase was booked.
	_, err = repos.Materials.CreateStockSnapshot(a.Id, dec("5"), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	t.Run("dropped line", func(t *testing.T) {
		_, err := svc.Costs.AttachMaterialsToInvoice(ctx, db, invoice.ID, nil)
		require.Error(t, err)
		assert.Equal(t, services.KindValidation, services.KindOf(err))
		assert.Contains(t, err.Error(), "Cemento")
	})

	t.Run("reduced line", func(t *testing.T) {
		_, err := svc.Costs.AttachMaterialsToInvoice(ctx, db, invoice.ID, []services.InvoiceLine{
			{MaterialID: a.Id, Quantity: dec("2"), UnitPrice: dec("9.50")},
		})
		require.Error(t, err)
		assert.Equal(t, services.KindValidation, services.KindOf(err))
		assert.Contains(t, err.Error(), "Cemento")
	})

	after, err := repos.Invoices.Find(invoice.ID)
	require.NoError(t, err)
	assert.True(t, after.TotalAmount.Equal(dec("95.00")), "invoice total = %s", after.TotalAmount)
	require.Len(t, after.Materials, 1)
	latest, err := repos.Materials.FindLatestStock(a.Id)
	require.NoError(t, err)
	assert.True(t, latest.Quantity.Equal(dec("5")), "stock = %s", latest.Quantity)
}
