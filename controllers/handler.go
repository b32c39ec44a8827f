package controllers

import (
	"time"

	"obras-backend/config"
	"obras-backend/database"
	"obras-backend/middlewares"
	"obras-backend/services"
	"obras-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Handler carries the dependencies shared by every controller.
type Handler struct {
	DB        *gorm.DB // public schema; tenant work goes through the request transaction
	Services  *services.Services
	Validator *middlewares.Validator
	Config    config.Config
	Log       logrus.FieldLogger
}

func (h *Handler) tenantDB(c *fiber.Ctx) (*gorm.DB, error) {
	db, err := database.GetTenantDB(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "tenant db unavailable")
	}
	return db, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := utils.ParseID(c.Params(name))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" in path")
	}
	return id, nil
}

// parseDate reads an optional YYYY-MM-DD string; empty yields the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "dates must be YYYY-MM-DD")
	}
	return t, nil
}

func optionalDate(s string) (*datatypes.Date, error) {
	t, err := parseDate(s)
	if err != nil || t.IsZero() {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

// dateOrToday parses s, defaulting to the current day.
func dateOrToday(s string) (datatypes.Date, error) {
	t, err := parseDate(s)
	if err != nil {
		return datatypes.Date{}, err
	}
	if t.IsZero() {
		t = time.Now()
	}
	return datatypes.Date(t), nil
}
