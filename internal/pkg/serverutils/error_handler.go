package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps uncaught errors to the uniform envelope. Fiber errors keep
// their status; everything else is a 500 with a generic message so internals
// never leak to clients.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).
		JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
