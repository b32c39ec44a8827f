package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"obras-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const paymentBody = `{"amount":"10.00"}`

func newIdempotencyApp(t *testing.T, handler fiber.Handler) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.IdempotencyKey{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("schema", "obra_test")
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Use(Idempotency(db, log))
	app.Post("/api/payments", handler)
	return app, db
}

func postPayment(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/payments", strings.NewReader(paymentBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	calls := 0
	app, _ := newIdempotencyApp(t, func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": calls})
	})

	status, first := postPayment(t, app, "k-1")
	assert.Equal(t, fiber.StatusCreated, status)
	status, second := postPayment(t, app, "k-1")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRejectsKeyInFlight(t *testing.T) {
	calls := 0
	app, db := newIdempotencyApp(t, func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(fiber.StatusCreated)
	})

	// Another request holds the key and has not finished yet.
	require.NoError(t, db.Create(&models.IdempotencyKey{
		Key:         "k-pending",
		RequestHash: requestHash(fiber.MethodPost, "/api/payments", []byte(paymentBody), "obra_test", "user-1"),
		Method:      fiber.MethodPost,
		Path:        "/api/payments",
		UserID:      "user-1",
	}).Error)

	status, _ := postPayment(t, app, "k-pending")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Zero(t, calls)
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	calls := 0
	app, db := newIdempotencyApp(t, func(c *fiber.Ctx) error {
		calls++
		if calls == 1 {
			return fiber.NewError(fiber.StatusServiceUnavailable, "lock busy")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	})

	status, _ := postPayment(t, app, "k-retry")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	var count int64
	require.NoError(t, db.Model(&models.IdempotencyKey{}).Where("key = ?", "k-retry").Count(&count).Error)
	assert.Zero(t, count)

	status, _ = postPayment(t, app, "k-retry")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 2, calls)

	var rec models.IdempotencyKey
	require.NoError(t, db.Where("key = ?", "k-retry").First(&rec).Error)
	assert.Equal(t, fiber.StatusCreated, rec.ResponseStatus)
	assert.NotNil(t, rec.CompletedAt)
}
