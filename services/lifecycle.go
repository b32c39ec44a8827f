package services

import (
	"context"

	"obras-backend/models"
	"obras-backend/repositories"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Lifecycle moves budgets and works through the workflow states.
type Lifecycle struct {
	log logrus.FieldLogger
}

func NewLifecycle(log logrus.FieldLogger) *Lifecycle {
	return &Lifecycle{log: log}
}

func (l *Lifecycle) TransitionBudget(ctx context.Context, db *gorm.DB, budgetID uint, target string) (*models.Budget, error) {
	to, ok := models.ParseLifecycleState(target)
	if !ok {
		return nil, validationError("unknown state %q", target)
	}

	var out *models.Budget
	err := repositories.New(db.WithContext(ctx)).Transaction(func(repos *repositories.Repositories) error {
		budget, err := repos.Budgets.FindForUpdate(budgetID)
		if err != nil {
			return lookupError("budget", budgetID, err)
		}
		if !budget.State.CanTransitionTo(to) {
			return validationError("%s", (&models.InvalidTransitionError{
				Entity: "budget", From: string(budget.State), To: string(to),
			}).Error())
		}
		if err := repos.Budgets.UpdateState(budget, to); err != nil {
			return persistenceError("update budget state", err)
		}
		budget.State = to
		out = budget
		return nil
	})
	if err != nil {
		return nil, asServiceError("transition budget", err)
	}

	l.log.WithFields(logrus.Fields{"budget_id": budgetID, "state": to}).Info("budget state changed")
	return out, nil
}

func (l *Lifecycle) TransitionWork(ctx context.Context, db *gorm.DB, workID uint, target string) (*models.Work, error) {
	to, ok := models.ParseLifecycleState(target)
	if !ok {
		return nil, validationError("unknown state %q", target)
	}

	var out *models.Work
	err := repositories.New(db.WithContext(ctx)).Transaction(func(repos *repositories.Repositories) error {
		work, err := repos.Works.FindForUpdate(workID)
		if err != nil {
			return lookupError("work", workID, err)
		}
		if !work.State.CanTransitionTo(to) {
			return validationError("%s", (&models.InvalidTransitionError{
				Entity: "work", From: string(work.State), To: string(to),
			}).Error())
		}
		if err := repos.Works.UpdateState(work, to); err != nil {
			return persistenceError("update work state", err)
		}
		work.State = to
		out = work
		return nil
	})
	if err != nil {
		return nil, asServiceError("transition work", err)
	}

	l.log.WithFields(logrus.Fields{"work_id": workID, "state": to}).Info("work state changed")
	return out, nil
}
