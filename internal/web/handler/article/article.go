// Package article serves articles annotated with their like and comment counters.
package article

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	articlecontroller "github.com/inkwell-api/inkwell/internal/db/controller/article"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

// Path is the base path of the article endpoints.
const Path = "/articles"

// Service provides the article endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

type createInput struct {
	Title    string               `json:"title" form:"title" validate:"required,max=255"`
	Slug     string               `json:"slug" form:"slug" validate:"max=255"`
	Body     string               `json:"body" form:"body" validate:"required"`
	Excerpt  string               `json:"excerpt" form:"excerpt"`
	Category *uint64              `json:"category" form:"category"`
	Status   models.ArticleStatus `json:"status" form:"status" validate:"omitempty,oneof=Draft Published Archived"`
}

type updateInput struct {
	Title    *string               `json:"title" form:"title" validate:"omitempty,max=255"`
	Slug     *string               `json:"slug" form:"slug" validate:"omitempty,max=255"`
	Body     *string               `json:"body" form:"body"`
	Excerpt  *string               `json:"excerpt" form:"excerpt"`
	Category handler.OptionalID    `json:"category" form:"category"`
	Status   *models.ArticleStatus `json:"status" form:"status" validate:"omitempty,oneof=Draft Published Archived"`
}

// view is an annotated article. Category replaces the bare category id.
type view struct {
	models.Article
	Category      *models.Category `json:"category"`
	AuthorEmail   string           `json:"author_email"`
	LikesCount    int64            `json:"likes_count"`
	CommentsCount int64            `json:"comments_count"`
	IsLiked       bool             `json:"is_liked"`
}

func newView(a *articlecontroller.Annotated) view {
	v := view{
		Article:       a.Article,
		Category:      a.Article.Category,
		LikesCount:    a.LikesCount,
		CommentsCount: a.CommentsCount,
		IsLiked:       a.IsLiked,
	}

	if a.Author != nil {
		v.AuthorEmail = a.Author.Email
	}

	return v
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	write := auth.RequirePermission(models.PermissionWrite)
	item := Path + handler.ItemPath

	router.Get(Path, write, s.List)
	router.Post(Path, write, s.Create)
	router.Get(item, write, s.Get)
	router.Put(item, write, s.Update)
	router.Patch(item, write, s.Update)
	router.Delete(item, write, s.Delete)

	return nil
}

// List shows articles filtered by status, category and author, searched and ordered.
func (s *Service) List(c *fiber.Ctx) error {
	f := articlecontroller.Filter{
		Status:   models.ArticleStatus(c.Query("status")),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Limit:    c.QueryInt("limit"),
		Offset:   c.QueryInt("offset"),
	}

	var err error

	if f.CategoryID, err = handler.QueryID(c, "category"); err != nil {
		return err
	}

	if f.AuthorID, err = handler.QueryID(c, "author"); err != nil {
		return err
	}

	if f.Status != "" && !f.Status.Valid() {
		return articlecontroller.ErrInvalidStatus
	}

	articles, err := articlecontroller.List(s.db, f, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	views := make([]view, 0, len(articles))
	for i := range articles {
		views = append(views, newView(&articles[i]))
	}

	return c.JSON(views)
}

// Get shows one annotated article.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, id)
}

// Create stores an article authored by the caller.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	a, err := articlecontroller.Create(s.db, articlecontroller.Input{
		Title:      in.Title,
		Slug:       in.Slug,
		Body:       in.Body,
		Excerpt:    in.Excerpt,
		CategoryID: in.Category,
		Status:     in.Status,
	}, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusCreated, a.ID)
}

// Update changes an article of the caller, or any article for moderators.
func (s *Service) Update(c *fiber.Ctx) error {
	a, err := s.owned(c)
	if err != nil {
		return err
	}

	var in updateInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	if _, err := articlecontroller.Update(s.db, a.ID, articlecontroller.Changes{
		Title:      in.Title,
		Slug:       in.Slug,
		Body:       in.Body,
		Excerpt:    in.Excerpt,
		CategoryID: in.Category.Change(),
		Status:     in.Status,
	}, auth.CurrentUserID(c)); err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, a.ID)
}

// Delete removes an article with its comments and likes.
func (s *Service) Delete(c *fiber.Ctx) error {
	a, err := s.owned(c)
	if err != nil {
		return err
	}

	if err := articlecontroller.Delete(s.db, a.ID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// owned loads the article of the route and applies the ownership check.
func (s *Service) owned(c *fiber.Ctx) (*models.Article, error) {
	id, err := handler.ParseID(c)
	if err != nil {
		return nil, err
	}

	a, err := articlecontroller.Get(s.db, id)
	if err != nil {
		return nil, err
	}

	if err := auth.CheckObjectOwnership(auth.CurrentUser(c), c.Method(), a.AuthorID); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) render(c *fiber.Ctx, status int, id uint64) error {
	a, err := articlecontroller.GetAnnotated(s.db, id, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(status).JSON(newView(a))
}
