// Package like serves likes. A user likes an article at most once; likes can not be edited.
package like

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	likecontroller "github.com/inkwell-api/inkwell/internal/db/controller/like"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
	"github.com/inkwell-api/inkwell/internal/web/metrics"
)

// Path is the base path of the like endpoints.
const Path = "/likes"

// Service provides the like endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

type createInput struct {
	Article uint64 `json:"article" form:"article" validate:"required"`
}

type view struct {
	ID        uint64    `json:"id"`
	Article   uint64    `json:"article"`
	User      uint64    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func newView(l *models.Like) view {
	return view{ID: l.ID, Article: l.ArticleID, User: l.UserID, CreatedAt: l.CreatedAt}
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
	router.Delete(item, authenticated, s.Delete)

	router.Put(item, authenticated, handler.MethodNotAllowed)
	router.Patch(item, authenticated, handler.MethodNotAllowed)

	return nil
}

// List shows likes, optionally of one article or one user.
func (s *Service) List(c *fiber.Ctx) error {
	articleID, err := handler.QueryID(c, "article")
	if err != nil {
		return err
	}

	userID, err := handler.QueryID(c, "user")
	if err != nil {
		return err
	}

	likes, err := likecontroller.List(s.db, likecontroller.Filter{ArticleID: articleID, UserID: userID})
	if err != nil {
		return err
	}

	views := make([]view, 0, len(likes))
	for i := range likes {
		views = append(views, newView(&likes[i]))
	}

	return c.JSON(views)
}

// Get shows one like.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	l, err := likecontroller.Get(s.db, id)
	if err != nil {
		return err
	}

	return c.JSON(newView(l))
}

// Create likes an article for the caller.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	l, err := likecontroller.Create(s.db, in.Article, auth.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, likecontroller.ErrAlreadyLiked) {
			metrics.LikeEvents.WithLabelValues(metrics.LikeDuplicate).Inc()
		}

		return err
	}

	metrics.LikeEvents.WithLabelValues(metrics.LikeCreated).Inc()

	return c.Status(fiber.StatusCreated).JSON(newView(l))
}

// Delete removes a like of the caller, or any like for moderators.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	l, err := likecontroller.Get(s.db, id)
	if err != nil {
		return err
	}

	if err := auth.CheckObjectOwnership(auth.CurrentUser(c), c.Method(), l.UserID); err != nil {
		return err
	}

	if err := likecontroller.Delete(s.db, l.ID); err != nil {
		return err
	}

	metrics.LikeEvents.WithLabelValues(metrics.LikeDeleted).Inc()

	return c.SendStatus(fiber.StatusNoContent)
}
