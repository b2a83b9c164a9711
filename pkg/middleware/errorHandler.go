package middleware

import (
	"errors"

	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/wrapper"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler answers errors that escape a handler with a failed
// JSONResult.
func ErrorHandler(log *logger.CanonicalLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		res := wrapper.ResponseError(code, err)
		log.HTTPError(c.Method(), c.Path(), res.Code, err)

		return c.Status(res.Code).JSON(res)
	}
}
