package services_test

import (
	"context"
	"testing"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionBudget(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()
	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")

	got, err := svc.Lifecycle.TransitionBudget(ctx, db, budget.ID, "Aprobado")
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, got.State)

	_, err = svc.Lifecycle.TransitionBudget(ctx, db, budget.ID, "Presupuestado")
	assert.Equal(t, services.KindValidation, services.KindOf(err))

	_, err = svc.Lifecycle.TransitionBudget(ctx, db, budget.ID, "Archivado")
	assert.Equal(t, services.KindValidation, services.KindOf(err))

	_, err = svc.Lifecycle.TransitionBudget(ctx, db, 404, "Aprobado")
	assert.Equal(t, services.KindNotFound, services.KindOf(err))

	stored, err := repositories.New(db).Budgets.Find(budget.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, stored.State)
}

func TestTransitionWork_TerminalStates(t *testing.T) {
	db := newTestDB(t)
	svc := newServices(t, nil)
	ctx := context.Background()
	budget := newBudget(t, db, newClient(t, db).Id, "0", "0")
	work := newWork(t, db, budget.ID, "Revoque")

	for _, st := range []string{"Aprobado", "En proceso", "Entregado"} {
		_, err := svc.Lifecycle.TransitionWork(ctx, db, work.ID, st)
		require.NoError(t, err, st)
	}
	_, err := svc.Lifecycle.TransitionWork(ctx, db, work.ID, "Cancelado")
	assert.Equal(t, services.KindValidation, services.KindOf(err))
}
