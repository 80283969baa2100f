// Package httpx holds the fiber plumbing shared by every handler: the JSON
// envelope, error rendering, request binding and request-scoped middleware.
package httpx

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// ErrorHandler renders errors returned by handlers. Storage failures are
// logged with full detail and, in production, reported with a generic message.
func ErrorHandler(log *zap.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("rid", RequestIDFrom(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			if production {
				msg = "internal server error"
			} else {
				msg = err.Error()
			}
		}
		return c.Status(status).JSON(Envelope{Success: false, Message: msg})
	}
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, apperr.ErrInvalidRequest):
		return fiber.StatusBadRequest, apperr.Message(err)
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound, apperr.Message(err)
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict, apperr.Message(err)
	case errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized, apperr.Message(err)
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.StatusForbidden, apperr.Message(err)
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Bind parses the request body into dst and validates its `validate` tags.
func Bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			return apperr.Invalid("%s", describe(ves[0]))
		}
		return apperr.Invalid("invalid request body")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return field + " must be at least " + fe.Param()
	case "max", "lte":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return field + " must be a valid email"
	default:
		return field + " is invalid"
	}
}

// ParamID reads a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (int, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid %s", name)
	}
	return id, nil
}
