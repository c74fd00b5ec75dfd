// Package comment serves threaded comments. Listings show top level comments with one level of replies.
package comment

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	commentcontroller "github.com/inkwell-api/inkwell/internal/db/controller/comment"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

// Path is the base path of the comment endpoints.
const Path = "/comments"

// Service provides the comment endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

type createInput struct {
	Article uint64  `json:"article" form:"article" validate:"required"`
	Body    string  `json:"body" form:"body" validate:"required"`
	Parent  *uint64 `json:"parent" form:"parent"`
}

type updateInput struct {
	Body string `json:"body" form:"body" validate:"required"`
}

type replyView struct {
	ID          uint64    `json:"id"`
	Author      uint64    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type view struct {
	ID          uint64      `json:"id"`
	Article     uint64      `json:"article"`
	Author      uint64      `json:"author"`
	AuthorEmail string      `json:"author_email"`
	Body        string      `json:"body"`
	Parent      *uint64     `json:"parent"`
	Replies     []replyView `json:"replies"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func authorEmail(c *models.Comment) string {
	if c.Author == nil {
		return ""
	}

	return c.Author.Email
}

func newView(c *models.Comment) view {
	v := view{
		ID:          c.ID,
		Article:     c.ArticleID,
		Author:      c.AuthorID,
		AuthorEmail: authorEmail(c),
		Body:        c.Body,
		Parent:      c.ParentID,
		Replies:     make([]replyView, 0, len(c.Replies)),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	for i := range c.Replies {
		r := &c.Replies[i]
		v.Replies = append(v.Replies, replyView{
			ID:          r.ID,
			Author:      r.AuthorID,
			AuthorEmail: authorEmail(r),
			Body:        r.Body,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
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

	canComment := auth.RequirePermission(models.PermissionComment)
	item := Path + handler.ItemPath

	router.Get(Path, canComment, s.List)
	router.Post(Path, canComment, s.Create)
	router.Get(item, canComment, s.Get)
	router.Put(item, canComment, s.Update)
	router.Patch(item, canComment, s.Update)
	router.Delete(item, canComment, s.Delete)

	return nil
}

// List shows top level comments, optionally of one article.
func (s *Service) List(c *fiber.Ctx) error {
	articleID, err := handler.QueryID(c, "article")
	if err != nil {
		return err
	}

	comments, err := commentcontroller.List(s.db, commentcontroller.Filter{ArticleID: articleID})
	if err != nil {
		return err
	}

	views := make([]view, 0, len(comments))
	for i := range comments {
		views = append(views, newView(&comments[i]))
	}

	return c.JSON(views)
}

// Get shows one comment with its direct replies.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, id)
}

// Create stores a comment or a reply by the caller.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	created, err := commentcontroller.Create(s.db, commentcontroller.Input{
		ArticleID: in.Article,
		Body:      in.Body,
		ParentID:  in.Parent,
	}, auth.CurrentUserID(c))
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusCreated, created.ID)
}

// Update replaces the body of a comment of the caller, or of any comment for moderators.
func (s *Service) Update(c *fiber.Ctx) error {
	cm, err := s.owned(c)
	if err != nil {
		return err
	}

	var in updateInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	if _, err := commentcontroller.UpdateBody(s.db, cm.ID, in.Body, auth.CurrentUserID(c)); err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, cm.ID)
}

// Delete removes a comment and all replies below it.
func (s *Service) Delete(c *fiber.Ctx) error {
	cm, err := s.owned(c)
	if err != nil {
		return err
	}

	if err := commentcontroller.Delete(s.db, cm.ID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// owned loads the comment of the route and applies the ownership check.
func (s *Service) owned(c *fiber.Ctx) (*models.Comment, error) {
	id, err := handler.ParseID(c)
	if err != nil {
		return nil, err
	}

	cm, err := commentcontroller.Get(s.db, id)
	if err != nil {
		return nil, err
	}

	if err := auth.CheckObjectOwnership(auth.CurrentUser(c), c.Method(), cm.AuthorID); err != nil {
		return nil, err
	}

	return cm, nil
}

func (s *Service) render(c *fiber.Ctx, status int, id uint64) error {
	cm, err := commentcontroller.Get(s.db, id)
	if err != nil {
		return err
	}

	replies, err := commentcontroller.RepliesByParentIDs(s.db, []uint64{cm.ID})
	if err != nil {
		return err
	}

	cm.Replies = replies[cm.ID]

	return c.Status(status).JSON(newView(cm))
}
