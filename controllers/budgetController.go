package controllers

import (
	"errors"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/services"
	"obras-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type BudgetCreateDTO struct {
	ClientID    uint            `json:"client_id" validate:"required"`
	MadeDate    string          `json:"made_date" validate:"omitempty,datetime=2006-01-02"`
	Description string          `json:"description" validate:"required"`
	Deadline    string          `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Profit      decimal.Decimal `json:"profit" validate:"money"`
}

type StateDTO struct {
	State string `json:"state" validate:"required"`
}

type WorkCreateDTO struct {
	Name          string `json:"name" validate:"required"`
	Order         int    `json:"order" validate:"gte=0"`
	EstimatedTime int    `json:"estimated_time" validate:"gte=0"`
	Deadline      string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

type WorkMaterialsDTO struct {
	Materials []WorkLineDTO `json:"materials" validate:"dive"`
}

type WorkLineDTO struct {
	MaterialID uint            `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"qty"`
}

// POST /api/budgets
func (h *Handler) CreateBudget(c *fiber.Ctx) error {
	var in BudgetCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	madeDate, err := dateOrToday(in.MadeDate)
	if err != nil {
		return err
	}
	deadline, err := optionalDate(in.Deadline)
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	repos := repositories.New(db)
	if _, err := repos.Clients.Find(in.ClientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "client does not exist")
		}
		return err
	}

	// A budget without works costs nothing, so its price starts at the profit.
	budget := models.Budget{
		MadeDate:     madeDate,
		Description:  in.Description,
		Deadline:     deadline,
		Cost:         decimal.Zero,
		Profit:       in.Profit,
		Price:        in.Profit,
		State:        models.StateBudgeted,
		PaymentState: models.PaymentStateDebt,
		ClientID:     in.ClientID,
	}
	if err := repos.Budgets.Create(&budget); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create budget")
	}
	if err := (services.ClientBalanceHook{}).RecalculateBalance(repos, budget.ClientID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(budget)
}

// GET /api/budgets?client_id=
func (h *Handler) GetBudgets(c *fiber.Ctx) error {
	var clientID uint
	if raw := c.Query("client_id"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid client_id")
		}
		clientID = id
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	budgets, err := repositories.New(db).Budgets.List(clientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"budgets": budgets, "message": "success"})
}

// GET /api/budgets/:id
func (h *Handler) GetBudget(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	repos := repositories.New(db)
	budget, err := repos.Budgets.Find(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "budget not found")
	}
	if err != nil {
		return err
	}
	payments, err := repos.Payments.FindByPayable(models.PayableBudget, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"budget": budget, "payments": payments})
}

// PUT /api/budgets/:id/state
func (h *Handler) UpdateBudgetState(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in StateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	budget, err := h.Services.Lifecycle.TransitionBudget(c.UserContext(), db, id, in.State)
	if err != nil {
		return err
	}
	return c.JSON(budget)
}

// GET /api/budgets/:id/update-price
func (h *Handler) UpdateBudgetPrice(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	budget, err := h.Services.Rollup.RefreshBudgetPrice(c.UserContext(), db, id)
	if err != nil {
		return err
	}
	return c.JSON(budget)
}

// POST /api/budgets/:id/works
func (h *Handler) CreateWork(c *fiber.Ctx) error {
	budgetID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in WorkCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	deadline, err := optionalDate(in.Deadline)
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	repos := repositories.New(db)
	if _, err := repos.Budgets.Find(budgetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "budget not found")
		}
		return err
	}

	// New works have no materials and cost 0, so the budget rollup is unchanged.
	work := models.Work{
		Order:         in.Order,
		Name:          in.Name,
		EstimatedTime: in.EstimatedTime,
		Deadline:      deadline,
		Cost:          decimal.Zero,
		State:         models.StateBudgeted,
		BudgetID:      budgetID,
	}
	if err := repos.Works.Create(&work); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create work")
	}
	return c.Status(fiber.StatusCreated).JSON(work)
}

// PUT /api/works/:id/state
func (h *Handler) UpdateWorkState(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in StateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	work, err := h.Services.Lifecycle.TransitionWork(c.UserContext(), db, id, in.State)
	if err != nil {
		return err
	}
	return c.JSON(work)
}

// POST /api/budgets/:id/works/:workId/materials
// Replaces the work's materials and returns the work with its recalculated cost.
func (h *Handler) AttachWorkMaterials(c *fiber.Ctx) error {
	budgetID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	workID, err := paramID(c, "workId")
	if err != nil {
		return err
	}
	var in WorkMaterialsDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	work, err := repositories.New(db).Works.Find(workID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && work.BudgetID != budgetID) {
		return fiber.NewError(fiber.StatusNotFound, "work not found in budget")
	}
	if err != nil {
		return err
	}

	lines := make([]services.WorkLine, 0, len(in.Materials))
	for _, l := range in.Materials {
		lines = append(lines, services.WorkLine{MaterialID: l.MaterialID, Quantity: l.Quantity})
	}
	out, err := h.Services.Costs.AttachMaterialsToWork(c.UserContext(), db, workID, lines)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GET /api/budgets/:id/debt
func (h *Handler) GetBudgetDebt(c *fiber.Ctx) error {
	return h.debtSummary(c, models.PayableBudget)
}

func (h *Handler) debtSummary(c *fiber.Ctx, payableType models.PayableType) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	summary, err := h.Services.Debts.Summary(c.UserContext(), db, payableType, id)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
