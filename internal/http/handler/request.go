package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"appsamples/internal/http/middleware"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// bindBody parses the request body into dst and validates it. When ok is false the error response has
// already been written and err is what the handler should return.
func bindBody(c *fiber.Ctx, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	return check(c, dst)
}

// bindQuery is bindBody for query parameters.
func bindQuery(c *fiber.Ctx, dst any) (ok bool, err error) {
	if err := c.QueryParser(dst); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed query")
	}
	return check(c, dst)
}

func check(c *fiber.Ctx, dst any) (bool, error) {
	err := validate.Struct(dst)
	if err == nil {
		return true, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "invalid input")
	}
	fields := make([]fieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		names = append(names, fe.Field())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    "INVALID_INPUT",
			Message: "invalid field: " + strings.Join(names, ", "),
			Fields:  fields,
		},
	})
}
