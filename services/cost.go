package services

import (
	"context"
	"time"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WorkLine is one requested material quantity for a work. The unit price comes
// from the material's latest price snapshot.
type WorkLine struct {
	MaterialID uint            `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// InvoiceLine is one purchased material quantity at the price actually paid.
type InvoiceLine struct {
	MaterialID uint            `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CostAggregator derives work costs and invoice totals from material lines.
type CostAggregator struct {
	rollup *BudgetRollup
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewCostAggregator(rollup *BudgetRollup, log logrus.FieldLogger, now func() time.Time) *CostAggregator {
	return &CostAggregator{rollup: rollup, log: log, now: now}
}

// AttachMaterialsToWork replaces the work's material lines, pinning each one to
// the material's latest price and stock snapshots, recomputes the work cost and
// then rolls the owning budget's cost and price up. Nothing is written unless
// every line resolves.
func (a *CostAggregator) AttachMaterialsToWork(ctx context.Context, db *gorm.DB, workID uint, lines []WorkLine) (*models.Work, error) {
	if err := validateWorkLines(lines); err != nil {
		return nil, err
	}

	var out *models.Work
	err := repositories.New(db.WithContext(ctx)).Transaction(func(repos *repositories.Repositories) error {
		work, err := repos.Works.FindForUpdate(workID)
		if err != nil {
			return lookupError("work", workID, err)
		}

		pivots := make([]models.WorkMaterial, 0, len(lines))
		cost := decimal.Zero
		for _, line := range lines {
			material, err := repos.Materials.Find(line.MaterialID)
			if err != nil {
				return lookupError("material", line.MaterialID, err)
			}
			price, stock, err := latestSnapshots(repos, material)
			if err != nil {
				return err
			}
			pivots = append(pivots, models.WorkMaterial{
				MaterialID: material.Id,
				Quantity:   line.Quantity,
				PriceID:    price.ID,
				StockID:    stock.ID,
			})
			cost = cost.Add(line.Quantity.Mul(price.UnitPrice))
		}

		if err := repos.Works.SyncMaterialLines(work.ID, pivots); err != nil {
			return persistenceError("sync work materials", err)
		}
		// Line products are summed exactly and rounded to cents once.
		work.Cost = utils.Round2(cost)
		if err := repos.Works.Save(work); err != nil {
			return persistenceError("save work", err)
		}

		budget, err := repos.Budgets.FindForUpdate(work.BudgetID)
		if err != nil {
			return lookupError("budget", work.BudgetID, err)
		}
		if err := a.rollup.UpdatePrice(repos, budget); err != nil {
			return err
		}

		out, err = repos.Works.Find(work.ID)
		if err != nil {
			return lookupError("work", work.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError("attach materials to work", err)
	}

	a.log.WithFields(logrus.Fields{"work_id": out.ID, "lines": len(lines), "cost": out.Cost.StringFixed(2)}).
		Info("work materials attached")
	return out, nil
}

// AttachMaterialsToInvoice replaces the invoice's material lines. The caller's
// unit price is authoritative: each line records a new price snapshot with it
// and a new stock snapshot reflecting the purchased quantity, so material
// history includes invoice-driven readings.
func (a *CostAggregator) AttachMaterialsToInvoice(ctx context.Context, db *gorm.DB, invoiceID uint, lines []InvoiceLine) (*models.Invoice, error) {
	if err := validateInvoiceLines(lines); err != nil {
		return nil, err
	}

	var out *models.Invoice
	err := repositories.New(db.WithContext(ctx)).Transaction(func(repos *repositories.Repositories) error {
		invoice, err := repos.Invoices.FindForUpdate(invoiceID)
		if err != nil {
			return lookupError("invoice", invoiceID, err)
		}
		current, err := repos.Invoices.Find(invoiceID)
		if err != nil {
			return lookupError("invoice", invoiceID, err)
		}
		// Quantities already booked into stock by this invoice.
		previous := make(map[uint]decimal.Decimal, len(current.Materials))
		for _, l := range current.Materials {
			previous[l.MaterialID] = l.Quantity
		}

		at := a.now()
		pivots := make([]models.InvoiceMaterial, 0, len(lines))
		total := decimal.Zero
		for _, line := range lines {
			material, err := repos.Materials.Find(line.MaterialID)
			if err != nil {
				return lookupError("material", line.MaterialID, err)
			}
			_, latestStock, err := latestSnapshots(repos, material)
			if err != nil {
				return err
			}

			price, err := repos.Materials.CreatePriceSnapshot(material.Id, line.UnitPrice, at)
			if err != nil {
				return persistenceError("record price snapshot", err)
			}
			delta := line.Quantity.Sub(previous[material.Id])
			delete(previous, material.Id)
			newStock := latestStock.Quantity.Add(delta)
			if newStock.IsNegative() {
				return negativeStockError(material, latestStock.Quantity, delta)
			}
			stock, err := repos.Materials.CreateStockSnapshot(material.Id, newStock, at)
			if err != nil {
				return persistenceError("record stock snapshot", err)
			}

			pivots = append(pivots, models.InvoiceMaterial{
				MaterialID: material.Id,
				Quantity:   line.Quantity,
				PriceID:    price.ID,
				StockID:    stock.ID,
			})
			total = total.Add(line.Quantity.Mul(line.UnitPrice))
		}

		// Lines dropped by the resync give their quantity back.
		for materialID, qty := range previous {
			latest, err := repos.Materials.FindLatestStock(materialID)
			if err != nil {
				return persistenceError("load stock", err)
			}
			if latest == nil {
				continue
			}
			newStock := latest.Quantity.Sub(qty)
			if newStock.IsNegative() {
				material, err := repos.Materials.Find(materialID)
				if err != nil {
					return lookupError("material", materialID, err)
				}
				return negativeStockError(material, latest.Quantity, qty.Neg())
			}
			if _, err := repos.Materials.CreateStockSnapshot(materialID, newStock, at); err != nil {
				return persistenceError("record stock snapshot", err)
			}
		}

		if err := repos.Invoices.SyncMaterialLines(invoice.ID, pivots); err != nil {
			return persistenceError("sync invoice materials", err)
		}
		invoice.TotalAmount = utils.Round2(total)
		if err := repos.Invoices.Save(invoice); err != nil {
			return persistenceError("save invoice", err)
		}

		out, err = repos.Invoices.Find(invoice.ID)
		if err != nil {
			return lookupError("invoice", invoice.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError("attach materials to invoice", err)
	}

	a.log.WithFields(logrus.Fields{"invoice_id": out.ID, "lines": len(lines), "total": out.TotalAmount.StringFixed(2)}).
		Info("invoice materials attached")
	return out, nil
}

// negativeStockError reports a resync that would take more stock back than the
// material currently has, e.g. after a manual stock correction.
func negativeStockError(material *models.Material, current, delta decimal.Decimal) error {
	return validationError("material %d (%s): stock %s cannot absorb a change of %s",
		material.Id, material.Name, current.String(), delta.String())
}

func latestSnapshots(repos *repositories.Repositories, material *models.Material) (*models.Price, *models.Stock, error) {
	price, err := repos.Materials.FindLatestPrice(material.Id)
	if err != nil {
		return nil, nil, persistenceError("load price", err)
	}
	if price == nil {
		return nil, nil, missingSnapshotError(material.Id, material.Name, "price")
	}
	stock, err := repos.Materials.FindLatestStock(material.Id)
	if err != nil {
		return nil, nil, persistenceError("load stock", err)
	}
	if stock == nil {
		return nil, nil, missingSnapshotError(material.Id, material.Name, "stock")
	}
	return price, stock, nil
}

// Request validation normally catches these, but internal callers skip it.
func validateWorkLines(lines []WorkLine) error {
	seen := make(map[uint]bool, len(lines))
	for i, l := range lines {
		if err := validateLine(i, l.MaterialID, l.Quantity, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateInvoiceLines(lines []InvoiceLine) error {
	seen := make(map[uint]bool, len(lines))
	for i, l := range lines {
		if err := validateLine(i, l.MaterialID, l.Quantity, seen); err != nil {
			return err
		}
		if l.UnitPrice.IsNegative() {
			return validationError("line %d: unit price must not be negative", i)
		}
		if !utils.FitsScale(l.UnitPrice, 2) {
			return validationError("line %d: unit price must have at most 2 decimal places", i)
		}
	}
	return nil
}

func validateLine(i int, materialID uint, quantity decimal.Decimal, seen map[uint]bool) error {
	if materialID == 0 {
		return validationError("line %d: material_id is required", i)
	}
	if seen[materialID] {
		return validationError("line %d: material %d appears more than once", i, materialID)
	}
	seen[materialID] = true
	if !quantity.IsPositive() {
		return validationError("line %d: quantity must be greater than zero", i)
	}
	if !utils.FitsScale(quantity, 3) {
		return validationError("line %d: quantity must have at most 3 decimal places", i)
	}
	return nil
}
