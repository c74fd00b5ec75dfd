// Package user provides persistence for user accounts.
package user

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/cascade"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/db/search"
)

const (
	emailQueryPattern = "email = ?"
	preloadRole       = "Role"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = apierr.New(apierr.ErrNotFound, "User not found.")
	// ErrEmailEmpty is returned when creating a user without an email address.
	ErrEmailEmpty = apierr.New(apierr.ErrValidation, "The Email field must be set.")
	// ErrEmailTaken is returned when the email address belongs to another user.
	ErrEmailTaken = apierr.New(apierr.ErrValidation, "User with this email already exists.")
	// ErrRoleNotFound is returned when the referenced role does not exist.
	ErrRoleNotFound = apierr.New(apierr.ErrValidation, "Invalid role.")
	// ErrInvalidGender is returned for a gender outside Male, Female and Other.
	ErrInvalidGender = apierr.New(apierr.ErrValidation, "Invalid gender.")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List.
type Filter struct {
	IsActive *bool
	RoleID   *uint
	// Search matches email, first name and last name.
	Search string
}

// NewUser holds the fields of a user to create.
type NewUser struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Gender      *models.Gender
	RoleID      *uint
	IsStaff     bool
	IsSuperuser bool
}

// Changes is a partial update. Nil fields are left alone.
// A Gender pointing at "" and a RoleID pointing at 0 clear the value.
type Changes struct {
	FirstName *string
	LastName  *string
	Gender    *models.Gender
	RoleID    *uint
	IsActive  *bool
	IsStaff   *bool
}

// NormalizeEmail trims the address and lowercases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	return email[:at] + strings.ToLower(email[at:])
}

// List returns users ordered by id.
func List(db *gorm.DB, f Filter) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Preload(preloadRole).Order("id")

	if f.IsActive != nil {
		q = q.Where("active = ?", *f.IsActive)
	}

	if f.RoleID != nil {
		q = q.Where("role_id = ?", *f.RoleID)
	}

	q = search.Contains(q, f.Search, "email", "first_name", "last_name")

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Get retrieves a user with its role by ID.
func Get(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.Preload(preloadRole).First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// GetByEmail retrieves a user with its role by email address.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var u models.User
	result := db.Preload(preloadRole).Where(emailQueryPattern, email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// Create stores a new active user with a hashed password.
func Create(db *gorm.DB, nu NewUser) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	email := NormalizeEmail(nu.Email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	if nu.Gender != nil && *nu.Gender != "" && !nu.Gender.Valid() {
		return nil, ErrInvalidGender
	}

	_, err := GetByEmail(db, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if err := checkRole(db, nu.RoleID); err != nil {
		return nil, err
	}

	u := &models.User{
		Email:       email,
		FirstName:   nu.FirstName,
		LastName:    nu.LastName,
		Gender:      nu.Gender,
		Active:      true,
		IsStaff:     nu.IsStaff,
		IsSuperuser: nu.IsSuperuser,
		RoleID:      nu.RoleID,
	}
	if u.Gender != nil && *u.Gender == "" {
		u.Gender = nil
	}
	u.SetPassword(nu.Password)

	if err := db.Omit(preloadRole).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return Get(db, u.ID)
}

// Update applies a partial update and returns the reloaded user.
func Update(db *gorm.DB, id uint64, c Changes) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	u, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}

	if c.FirstName != nil {
		values["first_name"] = *c.FirstName
	}

	if c.LastName != nil {
		values["last_name"] = *c.LastName
	}

	if c.Gender != nil {
		switch {
		case *c.Gender == "":
			values["gender"] = nil
		case c.Gender.Valid():
			values["gender"] = string(*c.Gender)
		default:
			return nil, ErrInvalidGender
		}
	}

	if c.RoleID != nil {
		if *c.RoleID == 0 {
			values["role_id"] = nil
		} else {
			if err := checkRole(db, c.RoleID); err != nil {
				return nil, err
			}
			values["role_id"] = *c.RoleID
		}
	}

	if c.IsActive != nil {
		values["active"] = *c.IsActive
	}

	if c.IsStaff != nil {
		values["is_staff"] = *c.IsStaff
	}

	if len(values) == 0 {
		return u, nil
	}

	if err := db.Model(&models.User{}).Where("id = ?", id).Updates(values).Error; err != nil {
		return nil, err
	}

	return Get(db, id)
}

// SetPassword replaces the password of the user with the given ID.
func SetPassword(db *gorm.DB, id uint64, password string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.User{}).Where("id = ?", id).Update("password", models.HashPassword(password))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// TouchLastLogin records a successful login.
func TouchLastLogin(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login", time.Now()).Error
}

// Delete deletes a user with the content they own.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		n, err := cascade.User(tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}

func checkRole(db *gorm.DB, roleID *uint) error {
	if roleID == nil {
		return nil
	}

	var n int64
	if err := db.Model(&models.Role{}).Where("id = ?", *roleID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrRoleNotFound
	}

	return nil
}
