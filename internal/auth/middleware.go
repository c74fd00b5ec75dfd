package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/db/controller/user"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

const (
	localsUser   = "auth_user"
	bearerPrefix = "Bearer "
)

// Authenticate creates Fiber middleware that resolves the bearer token into the request's user.
// Missing or invalid tokens leave the request anonymous; policies reject it later.
func Authenticate(db *gorm.DB, tokens *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return c.Next()
		}

		id, err := tokens.ParseAccess(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			log.Debug().Err(err).Msg("ignoring invalid bearer token")
			return c.Next()
		}

		u, err := user.Get(db, id)
		if err != nil {
			if !errors.Is(err, user.ErrUserNotFound) {
				return err
			}

			log.Debug().Uint64("user_id", id).Msg("bearer token for unknown user")

			return c.Next()
		}

		if !u.Active {
			return c.Next()
		}

		c.Locals(localsUser, u)

		return c.Next()
	}
}

// CurrentUser returns the authenticated user of the request, nil when anonymous.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, ok := c.Locals(localsUser).(*models.User)
	if !ok {
		return nil
	}

	return u
}

// CurrentUserID returns the id of the authenticated user, 0 when anonymous.
func CurrentUserID(c *fiber.Ctx) uint64 {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}

	return 0
}

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := CheckAuthenticated(CurrentUser(c)); err != nil {
			return err
		}

		return c.Next()
	}
}

// RequirePermission applies the coarse check: any principal may read, writes need perm.
func RequirePermission(perm models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := CheckPermission(CurrentUser(c), c.Method(), perm); err != nil {
			return err
		}

		return c.Next()
	}
}

// RequireCapability requires perm for every method.
func RequireCapability(perm models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := CheckCapability(CurrentUser(c), perm); err != nil {
			return err
		}

		return c.Next()
	}
}
