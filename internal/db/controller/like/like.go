// Package like provides persistence for likes. A user likes an article at most once.
package like

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

const pairQueryPattern = "article_id = ? AND user_id = ?"

var (
	// ErrLikeNotFound is returned when a like is not found.
	ErrLikeNotFound = apierr.New(apierr.ErrNotFound, "Like not found.")
	// ErrAlreadyLiked is returned for a second like of the same article by the same user.
	ErrAlreadyLiked = apierr.New(apierr.ErrValidation, "You have already liked this article.")
	// ErrInvalidArticle is returned when the referenced article does not exist.
	ErrInvalidArticle = apierr.New(apierr.ErrValidation, "Invalid article.")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List.
type Filter struct {
	ArticleID *uint64
	UserID    *uint64
}

// List returns likes, newest first.
func List(db *gorm.DB, f Filter) ([]models.Like, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Order("created_at DESC, id DESC")

	if f.ArticleID != nil {
		q = q.Where("article_id = ?", *f.ArticleID)
	}

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var likes []models.Like
	if err := q.Find(&likes).Error; err != nil {
		return nil, err
	}

	return likes, nil
}

// Get retrieves a like by its ID.
func Get(db *gorm.DB, id uint64) (*models.Like, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var l models.Like
	result := db.First(&l, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLikeNotFound
		}
		return nil, result.Error
	}

	return &l, nil
}

// Exists reports whether userID likes articleID.
func Exists(db *gorm.DB, articleID, userID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.Like{}).Where(pairQueryPattern, articleID, userID).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

// Create records that userID likes articleID.
// The unique index on (article_id, user_id) decides between concurrent attempts;
// the loser gets ErrAlreadyLiked like any other duplicate.
func Create(db *gorm.DB, articleID, userID uint64) (*models.Like, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.Article{}).Where("id = ?", articleID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInvalidArticle
	}

	liked, err := Exists(db, articleID, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, ErrAlreadyLiked
	}

	l := &models.Like{ArticleID: articleID, UserID: userID}
	l.StampCreated(userID)

	if err := db.Create(l).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyLiked
		}

		// drivers without error translation report the constraint violation verbatim
		if liked, exErr := Exists(db, articleID, userID); exErr == nil && liked {
			return nil, ErrAlreadyLiked
		}

		return nil, err
	}

	return l, nil
}

// Delete deletes a like by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Like{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLikeNotFound
	}

	return nil
}
