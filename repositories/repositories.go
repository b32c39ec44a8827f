// Package repositories holds the GORM queries behind the domain services.
// Every repository wraps the *gorm.DB it was built with, so building them on a
// transaction scopes all of their reads and writes to it.
package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by Find* lookups when no row matches.
var ErrNotFound = errors.New("record not found")

// Repositories bundles the repositories bound to one *gorm.DB.
type Repositories struct {
	db        *gorm.DB
	Materials *MaterialRepository
	Works     *WorkRepository
	Budgets   *BudgetRepository
	Invoices  *InvoiceRepository
	Salaries  *SalaryRepository
	Payments  *PaymentRepository
	Clients   *ClientRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:        db,
		Materials: &MaterialRepository{db: db},
		Works:     &WorkRepository{db: db},
		Budgets:   &BudgetRepository{db: db},
		Invoices:  &InvoiceRepository{db: db},
		Salaries:  &SalaryRepository{db: db},
		Payments:  &PaymentRepository{db: db},
		Clients:   &ClientRepository{db: db},
	}
}

// Transaction runs fn with repositories bound to a transaction. When db is
// already a transaction GORM nests it as a savepoint.
func (r *Repositories) Transaction(fn func(repos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// DB exposes the underlying handle for queries outside the repositories.
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

// forUpdate adds a row lock on PostgreSQL. SQLite serializes writers on its own.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
