package repositories

import (
	"obras-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func (r *ClientRepository) Create(client *models.Client) error {
	return r.db.Omit("Budgets").Create(client).Error
}

func (r *ClientRepository) Find(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *ClientRepository) List() ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Order("last_name").Order("first_name").Find(&clients).Error
	return clients, err
}

func (r *ClientRepository) Updates(id uint, updates map[string]any) error {
	return r.db.Model(&models.Client{}).Where("id = ?", id).Updates(updates).Error
}

// RecalculateBalance sets the client's balance to what is still owed over all
// of its budgets: sum(price) - sum(payments against those budgets).
func (r *ClientRepository) RecalculateBalance(clientID uint) (decimal.Decimal, error) {
	var budgets []models.Budget
	if err := r.db.Select("id", "price").Where("client_id = ?", clientID).Find(&budgets).Error; err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	ids := make([]uint, 0, len(budgets))
	for _, b := range budgets {
		balance = balance.Add(b.Price)
		ids = append(ids, b.ID)
	}

	if len(ids) > 0 {
		var payments []models.Payment
		err := r.db.Select("amount").
			Where("payable_type = ? AND payable_id IN ?", models.PayableBudget, ids).
			Find(&payments).Error
		if err != nil {
			return decimal.Zero, err
		}
		for _, p := range payments {
			balance = balance.Sub(p.Amount)
		}
	}

	err := r.db.Model(&models.Client{}).Where("id = ?", clientID).Update("balance", balance).Error
	return balance, err
}
