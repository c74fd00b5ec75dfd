package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// Gender is the optional gender of a user.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the defined genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// User represents an account. The email address is the login identifier.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Email is the unique login identifier.
	Email string `gorm:"unique;size:254;not null" json:"email"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255;not null" json:"-"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:150" json:"first_name"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:150" json:"last_name"`
	// Gender is optional.
	Gender *Gender `gorm:"type:varchar(10)" json:"gender"`
	// Active indicates whether the user account can log in.
	Active bool `gorm:"not null" json:"is_active"`
	// IsStaff marks operator accounts.
	IsStaff bool `gorm:"not null;default:false" json:"is_staff"`
	// IsSuperuser marks accounts created through createsuperuser.
	IsSuperuser bool `gorm:"not null;default:false" json:"is_superuser"`
	// RoleID is the ID of the role assigned to this user, nil for none.
	RoleID *uint `gorm:"column:role_id;index" json:"role"`
	// Role is the shared role. Deleting the role clears the reference.
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE" json:"-"`
	// LastLogin is set on every successful login.
	LastLogin *time.Time `json:"last_login"`
	// CreatedAt is the timestamp when the user joined (managed by GORM).
	CreatedAt time.Time `json:"date_joined"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HasAppPermission reports whether the user's role grants p. Users without a role have no permissions.
func (u *User) HasAppPermission(p Permission) bool {
	if u == nil {
		return false
	}

	return u.Role.HasPermission(p)
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// SetPassword replaces the stored hash with the hash of password.
func (u *User) SetPassword(password string) {
	u.Password = HashPassword(password)
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
