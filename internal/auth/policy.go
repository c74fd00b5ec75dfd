package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	default:
		return false
	}
}

// CheckAuthenticated rejects a missing principal.
func CheckAuthenticated(u *models.User) error {
	if u == nil || u.ID == 0 {
		return apierr.ErrUnauthenticated
	}

	return nil
}

// CheckPermission is the coarse, resource independent check. Reads need a principal,
// writes need a principal whose role grants perm. Authentication is decided first.
func CheckPermission(u *models.User, method string, perm models.Permission) error {
	if err := CheckAuthenticated(u); err != nil {
		return err
	}

	if IsSafeMethod(method) {
		return nil
	}

	return CheckCapability(u, perm)
}

// CheckCapability requires perm regardless of the method.
func CheckCapability(u *models.User, perm models.Permission) error {
	if err := CheckAuthenticated(u); err != nil {
		return err
	}

	if !u.HasAppPermission(perm) {
		log.Warn().Uint64("user_id", u.ID).Str("permission", perm.String()).
			Msg("User lacks required permission")

		return apierr.ErrForbidden
	}

	return nil
}

// CheckObjectOwnership is the object level check, run after the resource was loaded and after
// CheckPermission passed. Writes are allowed to the owner and to MODERATE holders; reads always pass.
func CheckObjectOwnership(u *models.User, method string, ownerID uint64) error {
	if err := CheckAuthenticated(u); err != nil {
		return err
	}

	if IsSafeMethod(method) {
		return nil
	}

	if u.ID == ownerID || u.HasAppPermission(models.PermissionModerate) {
		return nil
	}

	log.Warn().Uint64("user_id", u.ID).Uint64("owner_id", ownerID).Str("method", method).
		Msg("User is neither owner nor moderator")

	return apierr.ErrForbidden
}
