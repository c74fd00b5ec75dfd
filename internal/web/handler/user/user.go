// Package user provides the user administration endpoints. Every action needs ADMIN.
package user

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	usercontroller "github.com/inkwell-api/inkwell/internal/db/controller/user"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

// Path is the base path for user management.
const Path = "/users"

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

type createInput struct {
	Email     string         `json:"email" form:"email" validate:"required,email,max=254"`
	Password  string         `json:"password" form:"password" validate:"required,min=8"`
	FirstName string         `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string         `json:"last_name" form:"last_name" validate:"max=150"`
	Gender    *models.Gender `json:"gender" form:"gender" validate:"omitempty,oneof=Male Female Other"`
	Role      *uint          `json:"role" form:"role"`
}

type updateInput struct {
	FirstName *string        `json:"first_name" form:"first_name" validate:"omitempty,max=150"`
	LastName  *string        `json:"last_name" form:"last_name" validate:"omitempty,max=150"`
	Gender    *models.Gender `json:"gender" form:"gender"`
	Role      *uint          `json:"role" form:"role"`
	IsActive  *bool          `json:"is_active" form:"is_active"`
	IsStaff   *bool          `json:"is_staff" form:"is_staff"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	admin := auth.RequireCapability(models.PermissionAdmin)

	router.Get(Path, admin, s.List)
	router.Post(Path, admin, s.Create)
	router.Get(Path+handler.ItemPath, admin, s.Get)
	router.Put(Path+handler.ItemPath, admin, s.Update)
	router.Patch(Path+handler.ItemPath, admin, s.Update)
	router.Delete(Path+handler.ItemPath, admin, s.Delete)

	return nil
}

// List shows users, optionally filtered by is_active and role and searched by email and name.
func (s *Service) List(c *fiber.Ctx) error {
	isActive, err := handler.QueryBool(c, "is_active")
	if err != nil {
		return err
	}

	roleID, err := handler.QueryID(c, "role")
	if err != nil {
		return err
	}

	f := usercontroller.Filter{IsActive: isActive, Search: c.Query("search")}
	if roleID != nil {
		id := uint(*roleID)
		f.RoleID = &id
	}

	users, err := usercontroller.List(s.db, f)
	if err != nil {
		return err
	}

	return c.JSON(handler.NewUserViews(users))
}

// Get shows one user.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	u, err := usercontroller.Get(s.db, id)
	if err != nil {
		return err
	}

	return c.JSON(handler.NewUserView(u))
}

// Create adds an active user.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	u, err := usercontroller.Create(s.db, usercontroller.NewUser{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
		RoleID:    in.Role,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(handler.NewUserView(u))
}

// Update changes profile, role and flags of a user. PUT and PATCH both apply only the sent fields.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in updateInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	u, err := usercontroller.Update(s.db, id, usercontroller.Changes{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
		RoleID:    in.Role,
		IsActive:  in.IsActive,
		IsStaff:   in.IsStaff,
	})
	if err != nil {
		return err
	}

	return c.JSON(handler.NewUserView(u))
}

// Delete removes a user with the content they authored.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	if err := usercontroller.Delete(s.db, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
