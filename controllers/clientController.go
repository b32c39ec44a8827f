package controllers

import (
	"errors"

	"obras-backend/models"
	"obras-backend/repositories"
	"obras-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ClientCreateDTO struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	DocumentID  string `json:"document_id" validate:"omitempty,numeric,min=7,max=11"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	Address     string `json:"address" validate:"omitempty"`
}

// Balance is deliberately absent: it is maintained by the balance hook.
type ClientUpdateDTO struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1"`
	LastName    *string `json:"last_name" validate:"omitempty,min=1"`
	DocumentID  *string `json:"document_id" validate:"omitempty,numeric,min=7,max=11"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	Address     *string `json:"address" validate:"omitempty"`
}

// POST /api/clients
func (h *Handler) CreateClient(c *fiber.Ctx) error {
	var in ClientCreateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	client := models.Client{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DocumentID:  in.DocumentID,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		Balance:     decimal.Zero,
	}
	if err := repositories.New(db).Clients.Create(&client); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create client")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// GET /api/clients
func (h *Handler) GetClients(c *fiber.Ctx) error {
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	clients, err := repositories.New(db).Clients.List()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"clients": clients,
		"message": "success",
	})
}

// GET /api/clients/:id
func (h *Handler) GetClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}
	repos := repositories.New(db)
	client, err := repos.Clients.Find(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	if err != nil {
		return err
	}
	if client.Budgets, err = repos.Budgets.List(id); err != nil {
		return err
	}
	return c.JSON(client)
}

// PUT /api/clients/:id
func (h *Handler) UpdateClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in ClientUpdateDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	db, err := h.tenantDB(c)
	if err != nil {
		return err
	}

	repos := repositories.New(db)
	if _, err := repos.Clients.Find(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := repos.Clients.Updates(id, updates); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update client")
		}
	}

	out, err := repos.Clients.Find(id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
