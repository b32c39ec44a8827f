package database

import (
	"fmt"

	"obras-backend/models"

	"gorm.io/gorm"
)

// TenantModels are the tables that live in every tenant schema.
var TenantModels = []any{
	&models.Category{},
	&models.Measure{},
	&models.Client{},
	&models.Supplier{},
	&models.Employee{},
	&models.Material{},
	&models.Price{},
	&models.Stock{},
	&models.Budget{},
	&models.Work{},
	&models.WorkMaterial{},
	&models.Invoice{},
	&models.InvoiceMaterial{},
	&models.Salary{},
	&models.Payment{},
	&models.IdempotencyKey{},
}

// MigrateTenantSchema applies (idempotent) migrations for one tenant schema.
// On PostgreSQL it pins search_path and adds CHECK constraints the tags cannot express.
func MigrateTenantSchema(db *gorm.DB, schema string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := PinSchema(tx, schema); err != nil {
			return fmt.Errorf("set search_path failed: %w", err)
		}

		if err := tx.AutoMigrate(TenantModels...); err != nil {
			return fmt.Errorf("tenant automigrate failed: %w", err)
		}

		if !IsPostgres(tx) {
			return nil
		}

		checks := []struct{ table, name, expr string }{
			{"prices", "chk_prices_unit_price_nonneg", "unit_price >= 0"},
			{"stocks", "chk_stocks_quantity_nonneg", "quantity >= 0"},
			{"work_materials", "chk_work_materials_quantity_pos", "quantity > 0"},
			{"invoice_materials", "chk_invoice_materials_quantity_pos", "quantity > 0"},
			{"payments", "chk_payments_amount_pos", "amount > 0"},
			{"payments", "chk_payments_payable_type", "payable_type IN ('budget','invoice','salary')"},
			{"budgets", "chk_budgets_payment_state", "payment_state IN ('Deuda','Pago')"},
			{"invoices", "chk_invoices_payment_state", "payment_state IN ('Deuda','Pago')"},
			{"salaries", "chk_salaries_payment_state", "payment_state IN ('Deuda','Pago')"},
		}
		for _, c := range checks {
			stmt := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%[1]s'::regclass
		  AND conname  = '%[2]s'
	) THEN
		ALTER TABLE %[1]s ADD CONSTRAINT %[2]s CHECK (%[3]s);
	END IF;
END $$;`, c.table, c.name, c.expr)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", c.name, err)
			}
		}
		return nil
	})
}
