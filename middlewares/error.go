package middlewares

import (
	"errors"

	"obras-backend/config"
	"obras-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var kindStatus = map[services.Kind]int{
	services.KindNotFound:        fiber.StatusNotFound,
	services.KindValidation:      fiber.StatusUnprocessableEntity,
	services.KindMissingSnapshot: fiber.StatusUnprocessableEntity,
	services.KindOverpayment:     fiber.StatusUnprocessableEntity,
	services.KindConflict:        fiber.StatusConflict,
	services.KindPersistence:     fiber.StatusInternalServerError,
}

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(map[string]string, len(ve))
			for _, fe := range ve {
				out[fe.Field()] = fe.Tag()
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  out,
			})
		}

		var se *services.Error
		if errors.As(err, &se) {
			status, ok := kindStatus[se.Kind]
			if !ok {
				status = fiber.StatusInternalServerError
			}
			if status >= fiber.StatusInternalServerError {
				logInternal(log, c, err)
				return c.Status(status).JSON(fiber.Map{"message": "internal server error"})
			}
			body := fiber.Map{"message": se.Message, "kind": se.Kind}
			if se.RemainingDebt != nil {
				body["remaining_debt"] = se.RemainingDebt.StringFixed(2)
			}
			return c.Status(status).JSON(body)
		}

		logInternal(log, c, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
}

func logInternal(log logrus.FieldLogger, c *fiber.Ctx, err error) {
	config.LogError(log, "middlewares", "ErrorHandler", c.Method()+" "+c.Path(), nil, err)
}
