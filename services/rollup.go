package services

import (
	"context"

	"obras-backend/models"
	"obras-backend/repositories"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BalanceHook is notified whenever what a client owes may have changed.
type BalanceHook interface {
	RecalculateBalance(repos *repositories.Repositories, clientID uint) error
}

// ClientBalanceHook stores the recalculated balance on the client row.
type ClientBalanceHook struct{}

func (ClientBalanceHook) RecalculateBalance(repos *repositories.Repositories, clientID uint) error {
	_, err := repos.Clients.RecalculateBalance(clientID)
	return err
}

// BudgetRollup keeps Budget.Cost and Budget.Price consistent with the works.
type BudgetRollup struct {
	hook BalanceHook
	log  logrus.FieldLogger
}

func NewBudgetRollup(hook BalanceHook, log logrus.FieldLogger) *BudgetRollup {
	return &BudgetRollup{hook: hook, log: log}
}

// UpdateCost sets cost to the sum of the loaded works' cost and persists it.
func (r *BudgetRollup) UpdateCost(repos *repositories.Repositories, budget *models.Budget) error {
	budget.Cost = budget.WorksCost()
	if err := repos.Budgets.Save(budget); err != nil {
		return persistenceError("save budget cost", err)
	}
	return nil
}

// UpdatePrice refreshes cost first, then sets price = cost + profit and
// notifies the client balance hook. Callers pass repositories bound to the
// transaction that holds the budget row.
func (r *BudgetRollup) UpdatePrice(repos *repositories.Repositories, budget *models.Budget) error {
	if err := r.UpdateCost(repos, budget); err != nil {
		return err
	}
	budget.Price = budget.Cost.Add(budget.Profit)
	if err := repos.Budgets.Save(budget); err != nil {
		return persistenceError("save budget price", err)
	}
	if err := r.hook.RecalculateBalance(repos, budget.ClientID); err != nil {
		return persistenceError("recalculate client balance", err)
	}
	r.log.WithFields(logrus.Fields{
		"budget_id": budget.ID,
		"cost":      budget.Cost.StringFixed(2),
		"price":     budget.Price.StringFixed(2),
	}).Debug("budget price updated")
	return nil
}

// RefreshBudgetPrice reloads a budget with its works and rolls cost and price up
// in one transaction.
func (r *BudgetRollup) RefreshBudgetPrice(ctx context.Context, db *gorm.DB, budgetID uint) (*models.Budget, error) {
	var out *models.Budget
	err := repositories.New(db.WithContext(ctx)).Transaction(func(repos *repositories.Repositories) error {
		budget, err := repos.Budgets.FindForUpdate(budgetID)
		if err != nil {
			return lookupError("budget", budgetID, err)
		}
		if err := r.UpdatePrice(repos, budget); err != nil {
			return err
		}
		out = budget
		return nil
	})
	if err != nil {
		return nil, asServiceError("update budget price", err)
	}
	return out, nil
}
