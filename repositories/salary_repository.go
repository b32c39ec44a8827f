package repositories

import (
	"obras-backend/models"

	"gorm.io/gorm"
)

type SalaryRepository struct {
	db *gorm.DB
}

func (r *SalaryRepository) Create(salary *models.Salary) error {
	return r.db.Omit("Employee").Create(salary).Error
}

func (r *SalaryRepository) Find(id uint) (*models.Salary, error) {
	var salary models.Salary
	if err := r.db.First(&salary, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &salary, nil
}

func (r *SalaryRepository) FindForUpdate(id uint) (*models.Salary, error) {
	var salary models.Salary
	if err := forUpdate(r.db).First(&salary, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &salary, nil
}

func (r *SalaryRepository) Save(salary *models.Salary) error {
	return r.db.Omit("Employee").Save(salary).Error
}
