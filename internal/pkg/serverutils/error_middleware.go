package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates service errors into HTTP responses.
// Unknown errors are masked as 500 to avoid leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := AsAppError(err); ok {
			switch appErr.Kind {
			case KindValidation:
				return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(appErr.Message))
			case KindNotFound:
				return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(appErr.Message))
			case KindUnauthorized:
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(appErr.Message))
			}
		}

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErrs.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
