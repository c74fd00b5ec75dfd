// Package comment provides persistence for comments and their one level reply threads.
package comment

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/cascade"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

const (
	oldestFirst   = "created_at ASC, id ASC"
	preloadAuthor = "Author"
)

var (
	// ErrCommentNotFound is returned when a comment is not found.
	ErrCommentNotFound = apierr.New(apierr.ErrNotFound, "Comment not found.")
	// ErrBodyEmpty is returned for a blank comment.
	ErrBodyEmpty = apierr.New(apierr.ErrValidation, "Body may not be blank.")
	// ErrInvalidArticle is returned when the referenced article does not exist.
	ErrInvalidArticle = apierr.New(apierr.ErrValidation, "Invalid article.")
	// ErrInvalidParent is returned when the parent does not exist or belongs to another article.
	ErrInvalidParent = apierr.New(apierr.ErrValidation, "Invalid parent comment.")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List.
type Filter struct {
	ArticleID *uint64
}

// Input holds the fields of a new comment.
type Input struct {
	ArticleID uint64
	Body      string
	ParentID  *uint64
}

// List returns top level comments, oldest first, each with its direct replies attached oldest first.
// Replies are loaded for the whole page in one query.
func List(db *gorm.DB, f Filter) ([]models.Comment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Preload(preloadAuthor).Where("parent_id IS NULL").Order(oldestFirst)
	if f.ArticleID != nil {
		q = q.Where("article_id = ?", *f.ArticleID)
	}

	var comments []models.Comment
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}

	if len(comments) == 0 {
		return comments, nil
	}

	ids := make([]uint64, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}

	replies, err := RepliesByParentIDs(db, ids)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		comments[i].Replies = replies[comments[i].ID]
		if comments[i].Replies == nil {
			comments[i].Replies = []models.Comment{}
		}
	}

	return comments, nil
}

// RepliesByParentIDs loads the direct replies of the given comments grouped by parent, oldest first.
func RepliesByParentIDs(db *gorm.DB, parentIDs []uint64) (map[uint64][]models.Comment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	result := make(map[uint64][]models.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	var replies []models.Comment
	if err := db.Preload(preloadAuthor).
		Where("parent_id IN ?", parentIDs).
		Order(oldestFirst).
		Find(&replies).Error; err != nil {
		return nil, err
	}

	for _, r := range replies {
		result[*r.ParentID] = append(result[*r.ParentID], r)
	}

	return result, nil
}

// Get retrieves a comment with its author.
func Get(db *gorm.DB, id uint64) (*models.Comment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Comment
	result := db.Preload(preloadAuthor).First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// Create stores a comment by authorID.
func Create(db *gorm.DB, in Input, authorID uint64) (*models.Comment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(in.Body) == "" {
		return nil, ErrBodyEmpty
	}

	var n int64
	if err := db.Model(&models.Article{}).Where("id = ?", in.ArticleID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInvalidArticle
	}

	if in.ParentID != nil {
		var parent models.Comment
		if err := db.Select("id", "article_id").First(&parent, *in.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if parent.ArticleID != in.ArticleID {
			return nil, ErrInvalidParent
		}
	}

	c := &models.Comment{
		ArticleID: in.ArticleID,
		AuthorID:  authorID,
		Body:      in.Body,
		ParentID:  in.ParentID,
	}
	c.StampCreated(authorID)

	if err := db.Create(c).Error; err != nil {
		return nil, err
	}

	return Get(db, c.ID)
}

// UpdateBody replaces the body of a comment on behalf of userID.
func UpdateBody(db *gorm.DB, id uint64, body string, userID uint64) (*models.Comment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(body) == "" {
		return nil, ErrBodyEmpty
	}

	result := db.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]any{
		"body":          body,
		"updated_by_id": userID,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCommentNotFound
	}

	return Get(db, id)
}

// Delete deletes a comment and every reply below it.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := Get(db, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return cascade.Comments(tx, []uint64{id})
	})
}
