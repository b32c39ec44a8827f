package repositories

import (
	"obras-backend/models"

	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Omit("Materials", "Supplier").Create(invoice).Error
}

func (r *InvoiceRepository) Find(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Preload("Materials.Material").
		Preload("Materials.Price").
		Preload("Materials.Stock").
		First(&invoice, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &invoice, nil
}

func (r *InvoiceRepository) FindForUpdate(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := forUpdate(r.db).First(&invoice, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &invoice, nil
}

// SyncMaterialLines replaces the invoice's full line set.
func (r *InvoiceRepository) SyncMaterialLines(invoiceID uint, lines []models.InvoiceMaterial) error {
	if err := r.db.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceMaterial{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].InvoiceID = invoiceID
	}
	return r.db.Omit("Material", "Price", "Stock").Create(&lines).Error
}

func (r *InvoiceRepository) Save(invoice *models.Invoice) error {
	return r.db.Omit("Materials", "Supplier").Save(invoice).Error
}
