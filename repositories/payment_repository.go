package repositories

import (
	"obras-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) Find(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (r *PaymentRepository) FindForUpdate(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := forUpdate(r.db).First(&payment, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

// FindByPayable lists the payments recorded against one payable, oldest first.
func (r *PaymentRepository) FindByPayable(payableType models.PayableType, payableID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Where("payable_type = ? AND payable_id = ?", payableType, payableID).
		Order("id").
		Find(&payments).Error
	return payments, err
}

// SumByPayable adds the payments of one payable, skipping excludeID (0 skips nothing).
// Summed in Go so the result stays exact on drivers that hand numerics back as floats.
func (r *PaymentRepository) SumByPayable(payableType models.PayableType, payableID uint, excludeID uint) (decimal.Decimal, error) {
	payments, err := r.FindByPayable(payableType, payableID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		if excludeID != 0 && p.ID == excludeID {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total, nil
}

// Update rewrites the editable columns of a payment.
func (r *PaymentRepository) Update(payment *models.Payment) error {
	return r.db.Model(payment).Select("amount", "date", "description", "updated_at").Updates(payment).Error
}
