// Package category serves task categories.
package category

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	categorycontroller "github.com/inkwell-api/inkwell/internal/db/controller/category"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

// Path is the base path of the category endpoints.
const Path = "/categories"

// Service provides the category endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

type createInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description"`
}

type updateInput struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" form:"description"`
}

type withTasksView struct {
	models.Category
	Tasks []models.Task `json:"tasks"`
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

// List shows every category.
func (s *Service) List(c *fiber.Ctx) error {
	categories, err := categorycontroller.List(s.db)
	if err != nil {
		return err
	}

	return c.JSON(categories)
}

// Get shows a category with its tasks.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	cat, err := categorycontroller.GetWithTasks(s.db, id)
	if err != nil {
		return err
	}

	return c.JSON(withTasksView{Category: cat.Category, Tasks: cat.Tasks})
}

// Create adds a category.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	cat, err := categorycontroller.Create(s.db, in.Name, in.Description, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(cat)
}

// Update renames or redescribes a category.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var in updateInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	cat, err := categorycontroller.Update(s.db, id, in.Name, in.Description, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(cat)
}

// Delete removes a category and its tasks. Articles in it lose their category.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	if err := categorycontroller.Delete(s.db, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
