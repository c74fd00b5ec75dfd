package models

import "time"

// Canonical role names created by SeedDefaultRoles.
const (
	RoleUser          = "User"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// Role is a named bundle of permissions shared by many users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role.
	Name string `gorm:"unique;size:64;not null" json:"name"`
	// Permissions is the permission bitmask.
	Permissions Permission `gorm:"not null;default:0" json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"-"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// HasPermission reports whether the role grants p. A nil role grants nothing.
func (r *Role) HasPermission(p Permission) bool {
	if r == nil {
		return false
	}

	return r.Permissions.Has(p)
}

// AddPermission sets the bits of p. Adding a bit that is already set is a no-op.
func (r *Role) AddPermission(p Permission) {
	r.Permissions |= p
}

// RemovePermission clears the bits of p. Removing an unset bit is a no-op.
func (r *Role) RemovePermission(p Permission) {
	r.Permissions &^= p
}

// ResetPermissions clears every bit.
func (r *Role) ResetPermissions() {
	r.Permissions = PermissionNone
}

// PermissionLabels lists the labels of the granted permissions in declaration order.
func (r *Role) PermissionLabels() []string {
	if r == nil {
		return []string{}
	}

	return r.Permissions.Labels()
}

// DefaultRoles returns the canonical roles and their masks.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleUser, Permissions: PermissionFollow},
		{
			Name:        RoleModerator,
			Permissions: PermissionFollow | PermissionComment | PermissionWrite | PermissionModerate,
		},
		{Name: RoleAdministrator, Permissions: PermissionAll()},
	}
}
