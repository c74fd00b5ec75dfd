// Package role exposes roles read only. Creating, replacing and deleting roles is not
// supported over HTTP; permissions are changed through the permissions action.
package role

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	rolecontroller "github.com/inkwell-api/inkwell/internal/db/controller/role"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

// Path is the base path of the role endpoints.
const Path = "/users/roles"

// Service provides the role endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

type mutateInput struct {
	Action     string `json:"action" form:"action" validate:"required,oneof=add remove reset"`
	Permission string `json:"permission" form:"permission"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	authenticated := auth.RequireAuthenticated()
	item := Path + handler.ItemPath

	router.Get(Path, authenticated, s.List)
	router.Get(item, authenticated, s.Get)
	router.Post(item+"/permissions", auth.RequireCapability(models.PermissionAdmin), s.Mutate)

	router.Post(Path, authenticated, handler.MethodNotAllowed)
	router.Put(item, authenticated, handler.MethodNotAllowed)
	router.Patch(item, authenticated, handler.MethodNotAllowed)
	router.Delete(item, authenticated, handler.MethodNotAllowed)

	return nil
}

// List shows every role.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := rolecontroller.List(s.db)
	if err != nil {
		return err
	}

	views := make([]handler.RoleView, 0, len(roles))
	for i := range roles {
		views = append(views, handler.NewRoleView(&roles[i]))
	}

	return c.JSON(views)
}

// Get shows one role.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	r, err := rolecontroller.Get(s.db, uint(id))
	if err != nil {
		return err
	}

	return c.JSON(handler.NewRoleView(r))
}

// Mutate adds, removes or resets permissions of a role.
func (s *Service) Mutate(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in mutateInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	var perm models.Permission
	if in.Action != rolecontroller.ActionReset {
		perm, err = models.ParsePermission(in.Permission)
		if err != nil {
			return handler.ValidationError("permission", err)
		}
	}

	r, err := rolecontroller.Mutate(s.db, uint(id), in.Action, perm)
	if err != nil {
		return err
	}

	return c.JSON(handler.NewRoleView(r))
}
