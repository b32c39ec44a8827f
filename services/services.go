// Package services holds the domain rules: material cost roll-ups, debt
// calculation, payment settlement and the budget/work workflow. Services are
// built once at startup and receive the request's *gorm.DB on every call.
package services

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Services struct {
	Costs      *CostAggregator
	Rollup     *BudgetRollup
	Debts      DebtCalculator
	Settlement *SettlementEngine
	Lifecycle  *Lifecycle
}

type Options struct {
	Logger logrus.FieldLogger
	Locker Locker      // defaults to NoopLocker
	Hook   BalanceHook // defaults to ClientBalanceHook
	Now    func() time.Time
}

func New(opts Options) *Services {
	if opts.Locker == nil {
		opts.Locker = NoopLocker{}
	}
	if opts.Hook == nil {
		opts.Hook = ClientBalanceHook{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	rollup := NewBudgetRollup(opts.Hook, opts.Logger)
	return &Services{
		Costs:      NewCostAggregator(rollup, opts.Logger, opts.Now),
		Rollup:     rollup,
		Settlement: NewSettlementEngine(opts.Hook, opts.Locker, opts.Logger, opts.Now),
		Lifecycle:  NewLifecycle(opts.Logger),
	}
}
