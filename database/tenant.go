package database

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var schemaName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// SchemaNameFor derives a tenant schema name from a company name.
func SchemaNameFor(companyName string) (string, error) {
	safe := strings.ToLower(strings.TrimSpace(companyName))
	safe = strings.ReplaceAll(safe, " ", "_")
	if !schemaName.MatchString(safe) {
		return "", fmt.Errorf("invalid schema name after sanitization: %s", safe)
	}
	return safe, nil
}

// CreateSchema creates the tenant schema (PostgreSQL only).
func CreateSchema(db *gorm.DB, schema string) error {
	if !IsPostgres(db) {
		return nil
	}
	return db.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}

// PinSchema points search_path at the tenant for the current transaction.
// SET LOCAL reverts when the transaction ends.
func PinSchema(tx *gorm.DB, schema string) error {
	if !IsPostgres(tx) {
		return nil
	}
	if !schemaName.MatchString(schema) {
		return fmt.Errorf("invalid tenant schema %q", schema)
	}
	return tx.Exec(`SET LOCAL search_path = "` + schema + `", public`).Error
}

// GetTenantDB returns the per-request transaction opened by middlewares.TenantTx.
func GetTenantDB(c *fiber.Ctx) (*gorm.DB, error) {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx.WithContext(c.UserContext()), nil
		}
	}
	return nil, errors.New("tenant transaction missing")
}
