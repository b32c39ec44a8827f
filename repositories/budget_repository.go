package repositories

import (
	"obras-backend/models"

	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func (r *BudgetRepository) Create(budget *models.Budget) error {
	return r.db.Omit("Works", "Client").Create(budget).Error
}

// Find loads the budget with its works eager-loaded.
func (r *BudgetRepository) Find(id uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.Preload("Works", func(db *gorm.DB) *gorm.DB {
		return db.Order("position").Order("id")
	}).First(&budget, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &budget, nil
}

// FindForUpdate locks the budget row and then loads its works.
func (r *BudgetRepository) FindForUpdate(id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := forUpdate(r.db).First(&budget, id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := r.db.Where("budget_id = ?", id).Order("position").Order("id").Find(&budget.Works).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) List(clientID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	q := r.db.Order("id DESC")
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	err := q.Find(&budgets).Error
	return budgets, err
}

func (r *BudgetRepository) Save(budget *models.Budget) error {
	return r.db.Omit("Works", "Client").Save(budget).Error
}

func (r *BudgetRepository) UpdateState(budget *models.Budget, state models.LifecycleState) error {
	return r.db.Model(budget).Update("state", state).Error
}
