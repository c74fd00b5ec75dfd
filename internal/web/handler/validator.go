package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/inkwell-api/inkwell/internal/apierr"
)

type (
	// ErrorResponse represents a single failed field of a request body.
	ErrorResponse struct {
		FailedField string
		Tag         string
		Param       string
		Value       interface{}
	}

	// XValidator validates request structs and reports fields by their json name.
	XValidator struct {
		validator *validator.Validate
	}
)

// NewValidator returns a validator reporting json field names.
func NewValidator() *XValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return &XValidator{validator: v}
}

// Validate performs validation on the provided data and returns a slice of ErrorResponse.
func (v *XValidator) Validate(data interface{}) []ErrorResponse {
	var validationErrors []ErrorResponse

	errs := v.validator.Struct(data)
	if errs == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(errs, &fieldErrs) {
		return []ErrorResponse{{Tag: "invalid"}}
	}

	for _, err := range fieldErrs {
		validationErrors = append(validationErrors, ErrorResponse{
			FailedField: err.Field(),
			Tag:         err.Tag(),
			Param:       err.Param(),
			Value:       err.Value(),
		})
	}

	return validationErrors
}

// Bind parses the request body into out and validates it.
// The first failed field is returned as a validation error.
func (v *XValidator) Bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return apierr.Validation("Malformed request body.")
	}

	if errs := v.Validate(out); len(errs) > 0 {
		return apierr.Validation("%s", errs[0].Message())
	}

	return nil
}

// Message renders the failure the way clients see it.
func (e ErrorResponse) Message() string {
	var msg string

	switch e.Tag {
	case "required":
		msg = "This field is required."
	case "email":
		msg = "Enter a valid email address."
	case "min":
		msg = fmt.Sprintf("Ensure this field has at least %s characters.", e.Param)
	case "max":
		msg = fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param)
	case "oneof":
		msg = fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(e.Value))
	default:
		msg = "Invalid value."
	}

	if e.FailedField == "" {
		return msg
	}

	return e.FailedField + ": " + msg
}
