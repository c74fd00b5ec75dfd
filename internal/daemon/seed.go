package daemon

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/db/controller/role"
)

// seed makes sure the default roles exist with their canonical permissions.
func seed(db *gorm.DB) error {
	roles, err := role.SeedDefaultRoles(db)
	if err != nil {
		return errors.Wrap(err, "failed to seed default roles")
	}

	for _, r := range roles {
		log.Debug().Str("role", r.Name).Str("permissions", r.Permissions.String()).Msg("role seeded")
	}

	return nil
}
