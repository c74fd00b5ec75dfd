package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/inkwell-api/inkwell/internal/apierr"
)

// ParseID reads the :id route parameter. Anything but a positive integer is a 404,
// the route simply does not name a resource.
func ParseID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(IDParam), 10, 64)
	if err != nil || id == 0 {
		return 0, apierr.ErrNotFound
	}

	return id, nil
}

// QueryID reads an optional id filter from the query string, nil when absent.
func QueryID(c *fiber.Ctx, key string) (*uint64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apierr.Validation("%s: Select a valid choice.", key)
	}

	return &id, nil
}

// QueryBool reads an optional boolean filter, accepting true/false and 1/0.
func QueryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apierr.Validation("%s: Enter a valid boolean.", key)
	}

	return &b, nil
}

// MethodNotAllowed rejects an action the resource does not support.
func MethodNotAllowed(c *fiber.Ctx) error {
	return apierr.New(apierr.ErrMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", c.Method()))
}

// ValidationError reports err against a single input field.
func ValidationError(field string, err error) error {
	return apierr.Validation("%s: %s", field, err.Error())
}
