package handler

import (
	"time"

	"github.com/inkwell-api/inkwell/internal/db/models"
)

// UserView is the public representation of an account.
type UserView struct {
	ID         uint64         `json:"id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Gender     *models.Gender `json:"gender"`
	IsActive   bool           `json:"is_active"`
	IsStaff    bool           `json:"is_staff"`
	DateJoined time.Time      `json:"date_joined"`
	Role       *uint          `json:"role"`
	RoleName   *string        `json:"role_name"`
}

// NewUserView maps u, which should have its role preloaded.
func NewUserView(u *models.User) UserView {
	v := UserView{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Gender:     u.Gender,
		IsActive:   u.Active,
		IsStaff:    u.IsStaff,
		DateJoined: u.CreatedAt,
		Role:       u.RoleID,
	}

	if u.Role != nil {
		name := u.Role.Name
		v.RoleName = &name
	}

	return v
}

// NewUserViews maps a list of users.
func NewUserViews(users []models.User) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, NewUserView(&users[i]))
	}

	return views
}

// RoleView shows a role with its permission labels.
type RoleView struct {
	ID              uint              `json:"id"`
	Name            string            `json:"name"`
	Permissions     models.Permission `json:"permissions"`
	PermissionsList []string          `json:"permissions_list"`
}

// NewRoleView maps r.
func NewRoleView(r *models.Role) RoleView {
	return RoleView{
		ID:              r.ID,
		Name:            r.Name,
		Permissions:     r.Permissions,
		PermissionsList: r.PermissionLabels(),
	}
}
