package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"obras-backend/database"
	"obras-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxIdempotencyKey = 128

// Idempotency processes Idempotency-Key for mutating HTTP methods in a schema-safe way.
// The key record is claimed in its own short transaction before the handler runs.
// A completed key replays the stored response, a key still in flight answers 409,
// and a failed request releases its key so the client can retry.
func Idempotency(db *gorm.DB, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKey {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		schema, _ := c.Locals("schema").(string)
		userID, _ := c.Locals("userID").(string)
		if schema == "" || userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
		}

		path := c.OriginalURL()
		reqHash := requestHash(method, path, c.Body(), schema, userID)

		// Phase 1: read or create the pending record.
		var existing models.IdempotencyKey
		created := false
		err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := database.PinSchema(tx, schema); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "idempotency schema pin failed")
			}

			if err := tx.Where("key = ?", key).First(&existing).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				rec := models.IdempotencyKey{
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
					UserID:      userID,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// Lost a unique race: read the winner.
					if e3 := tx.Where("key = ?", key).First(&existing).Error; e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
				} else {
					existing = rec
					created = true
				}
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			return nil
		})
		if err != nil {
			return err
		}

		if existing.ResponseStatus != 0 {
			c.Set("Idempotent-Replay", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		if !created {
			return fiber.NewError(fiber.StatusConflict, "request with this Idempotency-Key is still in progress")
		}

		if err := c.Next(); err != nil {
			releaseKey(c, db, log, schema, key)
			return err
		}

		// Phase 2: store the response. Best effort: the request already succeeded.
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			releaseKey(c, db, log, schema, key)
			return nil
		}
		blob := append([]byte(nil), c.Response().Body()...)
		now := time.Now().UTC()
		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := database.PinSchema(tx, schema); err != nil {
				return err
			}
			return tx.Model(&models.IdempotencyKey{}).
				Where("key = ?", key).
				Updates(map[string]any{
					"response_status": status,
					"response_body":   blob,
					"completed_at":    &now,
				}).Error
		})
		if err != nil {
			log.WithError(err).WithField("idempotency_key", key).Warn("could not store idempotent response")
		}
		return nil
	}
}

// releaseKey drops a pending key whose request failed.
func releaseKey(c *fiber.Ctx, db *gorm.DB, log logrus.FieldLogger, schema, key string) {
	err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := database.PinSchema(tx, schema); err != nil {
			return err
		}
		return tx.Where("key = ? AND response_status = 0", key).Delete(&models.IdempotencyKey{}).Error
	})
	if err != nil {
		log.WithError(err).WithField("idempotency_key", key).Warn("could not release idempotency key")
	}
}

// requestHash is sha256(method|path|body|schema|user).
func requestHash(method, path string, body []byte, schema, userID string) string {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(method), []byte(path), body, []byte(schema), []byte(userID)} {
		h.Write(part)
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
