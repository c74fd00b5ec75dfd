// Package role provides persistence for roles and the default role seeding procedure.
package role

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

// Permission mutation actions accepted by Mutate.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionReset  = "reset"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = apierr.New(apierr.ErrNotFound, "Role not found.")
	// ErrRoleNameEmpty is returned when attempting to create a role with an empty name.
	ErrRoleNameEmpty = apierr.New(apierr.ErrValidation, "Role name cannot be empty.")
	// ErrRoleAlreadyExists is returned when attempting to create a role whose name is taken.
	ErrRoleAlreadyExists = apierr.New(apierr.ErrValidation, "Role with this name already exists.")
	// ErrUnknownAction is returned by Mutate for anything but add, remove or reset.
	ErrUnknownAction = apierr.New(apierr.ErrValidation, "Action must be one of add, remove, reset.")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// SeedDefaultRoles creates the canonical roles if missing and resets their masks.
// Running it repeatedly never creates duplicates.
func SeedDefaultRoles(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	defaults := models.DefaultRoles()
	seeded := make([]models.Role, 0, len(defaults))

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, def := range defaults {
			var r models.Role
			if err := tx.Where(models.Role{Name: def.Name}).
				Attrs(models.Role{Permissions: def.Permissions}).
				FirstOrCreate(&r).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", def.Name, err)
			}

			if r.Permissions != def.Permissions {
				r.Permissions = def.Permissions
				if err := tx.Save(&r).Error; err != nil {
					return fmt.Errorf("reset role %s: %w", def.Name, err)
				}
			}

			seeded = append(seeded, r)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return seeded, nil
}

// List returns every role ordered by id.
func List(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	if err := db.Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Get retrieves a role by its ID.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.Role
	result := db.First(&r, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &r, nil
}

// GetByName retrieves a role by its name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var r models.Role
	result := db.Where(nameQueryPattern, name).First(&r)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &r, nil
}

// Create creates a new role.
func Create(db *gorm.DB, name string, perms models.Permission) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	_, err := GetByName(db, name)
	if err == nil {
		return nil, ErrRoleAlreadyExists
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return nil, err
	}

	r := &models.Role{Name: name, Permissions: perms}
	if err := db.Create(r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoleAlreadyExists
		}
		return nil, err
	}

	return r, nil
}

// Mutate applies a permission action to the role with the given ID and persists the new mask.
// For ActionReset perm is ignored.
func Mutate(db *gorm.DB, id uint, action string, perm models.Permission) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	r, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionAdd:
		r.AddPermission(perm)
	case ActionRemove:
		r.RemovePermission(perm)
	case ActionReset:
		r.ResetPermissions()
	default:
		return nil, ErrUnknownAction
	}

	if err := db.Model(r).Update("permissions", r.Permissions).Error; err != nil {
		return nil, err
	}

	return r, nil
}

// Delete deletes a role by ID. Users holding the role keep existing without a role.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("role_id = ?", id).
			Update("role_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Role{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoleNotFound
		}

		return nil
	})
}

// DeleteByName deletes a role by name.
func DeleteByName(db *gorm.DB, name string) error {
	r, err := GetByName(db, name)
	if err != nil {
		return err
	}

	return Delete(db, r.ID)
}
