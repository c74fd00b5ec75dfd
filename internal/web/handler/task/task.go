// Package task serves tasks.
package task

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	taskcontroller "github.com/inkwell-api/inkwell/internal/db/controller/task"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

// Path is the base path of the task endpoints.
const Path = "/tasks"

// Service provides the task endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

type createInput struct {
	Title       string          `json:"title" form:"title" validate:"required,max=200"`
	Description string          `json:"description" form:"description"`
	Completed   bool            `json:"completed" form:"completed"`
	Category    *uint64         `json:"category" form:"category"`
	Priority    models.Priority `json:"priority" form:"priority" validate:"omitempty,oneof=Low Medium High"`
}

type updateInput struct {
	Title       *string            `json:"title" form:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description" form:"description"`
	Completed   *bool              `json:"completed" form:"completed"`
	Category    handler.OptionalID `json:"category" form:"category"`
	Priority    *models.Priority   `json:"priority" form:"priority" validate:"omitempty,oneof=Low Medium High"`
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
	router.Post(Path, authenticated, s.Create)
	router.Get(item, authenticated, s.Get)
	router.Put(item, authenticated, s.Update)
	router.Patch(item, authenticated, s.Update)
	router.Delete(item, authenticated, s.Delete)

	return nil
}

// List shows tasks newest first, optionally of one category.
func (s *Service) List(c *fiber.Ctx) error {
	categoryID, err := handler.QueryID(c, "category")
	if err != nil {
		return err
	}

	tasks, err := taskcontroller.List(s.db, categoryID)
	if err != nil {
		return err
	}

	return c.JSON(tasks)
}

// Get shows one task.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	t, err := taskcontroller.Get(s.db, id)
	if err != nil {
		return err
	}

	return c.JSON(t)
}

// Create adds a task.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	t, err := taskcontroller.Create(s.db, taskcontroller.Input{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CategoryID:  in.Category,
		Priority:    in.Priority,
	}, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

// Update changes the sent fields of a task.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in updateInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	t, err := taskcontroller.Update(s.db, id, taskcontroller.Changes{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CategoryID:  in.Category.Change(),
		Priority:    in.Priority,
	}, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(t)
}

// Delete removes a task.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	if err := taskcontroller.Delete(s.db, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
