package controllers

import (
	"errors"
	"strings"
	"time"

	"obras-backend/database"
	"obras-backend/middlewares"
	"obras-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterDTO struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	CompanyName     string `json:"company_name" validate:"required"`
	TaxID           string `json:"tax_id" validate:"omitempty"`
	Address         string `json:"address" validate:"required"`
	City            string `json:"city" validate:"required"`
	Country         string `json:"country" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,phone"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var in RegisterDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}
	in.Email = strings.ToLower(in.Email)

	schemaName, err := database.SchemaNameFor(in.CompanyName)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "company name cannot be used as a tenant name")
	}

	var company models.Company
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "email already exists")
		}

		user := models.User{
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			Email:      in.Email,
			SchemaName: schemaName,
		}
		if err := user.SetPassword(in.Password); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not create user")
		}

		company = models.Company{
			CompanyName: in.CompanyName,
			TaxID:       in.TaxID,
			Address:     in.Address,
			City:        in.City,
			Country:     in.Country,
			PhoneNumber: in.PhoneNumber,
			UserId:      user.Id,
			SchemaName:  schemaName,
		}
		if err := tx.Create(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not create company")
		}

		if err := database.CreateSchema(tx, schemaName); err != nil {
			return err
		}
		return database.MigrateTenantSchema(tx, schemaName)
	})
	if err != nil {
		return err
	}

	h.Log.WithField("schema", schemaName).Info("tenant registered")
	if err := h.DB.WithContext(c.UserContext()).Preload("User").First(&company, "id = ?", company.Id).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

// POST /api/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var in LoginDTO
	if err := h.Validator.BindAndValidate(c, &in); err != nil {
		return err
	}

	var user models.User
	err := h.DB.WithContext(c.UserContext()).Where("email = ?", strings.ToLower(in.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}
	if err != nil {
		return err
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}

	token, err := middlewares.GenerateJWT(h.Config.JWTSecret, user.Id, user.SchemaName)
	if err != nil {
		return err
	}

	// Bring the tenant schema up to date with the current models.
	if err := database.MigrateTenantSchema(h.DB.WithContext(c.UserContext()), user.SchemaName); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token":  token,
		"schema": user.SchemaName,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
		},
	})
}

// POST /api/logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "success"})
}
