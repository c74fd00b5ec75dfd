// Package article provides persistence for articles, including the annotated listing.
package article

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/cascade"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/db/search"
)

const (
	slugQueryPattern = "slug = ?"
	// DefaultOrdering lists newest articles first.
	DefaultOrdering = "-created_at"
)

var orderingColumns = map[string]string{
	"created_at": "articles.created_at",
	"updated_at": "articles.updated_at",
	"title":      "articles.title",
}

var (
	// ErrArticleNotFound is returned when an article is not found.
	ErrArticleNotFound = apierr.New(apierr.ErrNotFound, "Article not found.")
	// ErrTitleEmpty is returned when an article has no title.
	ErrTitleEmpty = apierr.New(apierr.ErrValidation, "Title may not be blank.")
	// ErrBodyEmpty is returned when an article has no body.
	ErrBodyEmpty = apierr.New(apierr.ErrValidation, "Body may not be blank.")
	// ErrInvalidSlug is returned for a slug with characters other than letters, digits, hyphens and underscores.
	ErrInvalidSlug = apierr.New(apierr.ErrValidation, "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	// ErrSlugTaken is returned when another article uses the slug.
	ErrSlugTaken = apierr.New(apierr.ErrValidation, "Article with this slug already exists.")
	// ErrInvalidCategory is returned when the referenced category does not exist.
	ErrInvalidCategory = apierr.New(apierr.ErrValidation, "Invalid category.")
	// ErrInvalidStatus is returned for a status outside Draft, Published and Archived.
	ErrInvalidStatus = apierr.New(apierr.ErrValidation, "Invalid status.")
	// ErrInvalidOrdering is returned for an unknown ordering key.
	ErrInvalidOrdering = apierr.New(apierr.ErrValidation, "Ordering must be one of created_at, updated_at, title.")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows and orders List.
type Filter struct {
	Status     models.ArticleStatus
	CategoryID *uint64
	AuthorID   *uint64
	// Search matches title, body, excerpt and slug.
	Search string
	// Ordering is a column name with an optional "-" prefix for descending order.
	Ordering string
	Limit    int
	Offset   int
}

// Input holds the writable fields of a new article.
type Input struct {
	Title      string
	Slug       string
	Body       string
	Excerpt    string
	CategoryID *uint64
	Status     models.ArticleStatus
}

// Changes is a partial update. Nil fields are left alone; a CategoryID pointing at 0 clears the category.
type Changes struct {
	Title      *string
	Slug       *string
	Body       *string
	Excerpt    *string
	CategoryID *uint64
	Status     *models.ArticleStatus
}

func orderClause(ordering string) (string, error) {
	if ordering == "" {
		ordering = DefaultOrdering
	}

	dir := "ASC"
	key := ordering
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}

	column, ok := orderingColumns[key]
	if !ok {
		return "", ErrInvalidOrdering
	}

	return column + " " + dir + ", articles.id " + dir, nil
}

// List returns annotated articles for viewerID.
func List(db *gorm.DB, f Filter, viewerID uint64) ([]Annotated, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	order, err := orderClause(f.Ordering)
	if err != nil {
		return nil, err
	}

	q := db.Preload("Category").Preload("Author").Order(order)

	if f.Status != "" {
		q = q.Where("articles.status = ?", f.Status)
	}

	if f.CategoryID != nil {
		q = q.Where("articles.category_id = ?", *f.CategoryID)
	}

	if f.AuthorID != nil {
		q = q.Where("articles.author_id = ?", *f.AuthorID)
	}

	q = search.Contains(q, f.Search, "articles.title", "articles.body", "articles.excerpt", "articles.slug")

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var articles []models.Article
	if err := q.Find(&articles).Error; err != nil {
		return nil, err
	}

	return Annotate(db, articles, viewerID)
}

// Get retrieves an article with its author and category.
func Get(db *gorm.DB, id uint64) (*models.Article, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var a models.Article
	result := db.Preload("Category").Preload("Author").First(&a, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, result.Error
	}

	return &a, nil
}

// GetAnnotated retrieves one article annotated for viewerID.
func GetAnnotated(db *gorm.DB, id, viewerID uint64) (*Annotated, error) {
	a, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	out, err := Annotate(db, []models.Article{*a}, viewerID)
	if err != nil {
		return nil, err
	}

	return &out[0], nil
}

// Exists reports whether an article with the given ID exists.
func Exists(db *gorm.DB, id uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.Article{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

// Create stores a new article written by authorID.
func Create(db *gorm.DB, in Input, authorID uint64) (*models.Article, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleEmpty
	}

	if strings.TrimSpace(in.Body) == "" {
		return nil, ErrBodyEmpty
	}

	if in.Status == "" {
		in.Status = models.ArticleDraft
	}

	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}

	if err := checkCategory(db, in.CategoryID); err != nil {
		return nil, err
	}

	slug := in.Slug
	if slug == "" {
		slug = generateSlug(in.Title)
	} else if !ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	if err := checkSlug(db, slug, 0); err != nil {
		return nil, err
	}

	a := &models.Article{
		Title:      in.Title,
		Slug:       slug,
		Body:       in.Body,
		Excerpt:    in.Excerpt,
		AuthorID:   authorID,
		CategoryID: in.CategoryID,
		Status:     in.Status,
	}
	a.StampCreated(authorID)

	if err := db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return Get(db, a.ID)
}

// Update applies a partial update on behalf of userID and returns the reloaded article.
func Update(db *gorm.DB, id uint64, c Changes, userID uint64) (*models.Article, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	values := map[string]any{"updated_by_id": userID}

	if c.Title != nil {
		if strings.TrimSpace(*c.Title) == "" {
			return nil, ErrTitleEmpty
		}
		values["title"] = *c.Title
	}

	if c.Body != nil {
		if strings.TrimSpace(*c.Body) == "" {
			return nil, ErrBodyEmpty
		}
		values["body"] = *c.Body
	}

	if c.Excerpt != nil {
		values["excerpt"] = *c.Excerpt
	}

	if c.Slug != nil {
		if !ValidSlug(*c.Slug) {
			return nil, ErrInvalidSlug
		}
		if err := checkSlug(db, *c.Slug, id); err != nil {
			return nil, err
		}
		values["slug"] = *c.Slug
	}

	if c.Status != nil {
		if !c.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		values["status"] = string(*c.Status)
	}

	if c.CategoryID != nil {
		if *c.CategoryID == 0 {
			values["category_id"] = nil
		} else {
			if err := checkCategory(db, c.CategoryID); err != nil {
				return nil, err
			}
			values["category_id"] = *c.CategoryID
		}
	}

	if err := db.Model(&models.Article{}).Where("id = ?", id).Updates(values).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return Get(db, id)
}

// Delete deletes an article with its comments and likes.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	ok, err := Exists(db, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrArticleNotFound
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return cascade.Articles(tx, []uint64{id})
	})
}

func checkSlug(db *gorm.DB, slug string, exceptID uint64) error {
	var n int64
	if err := db.Model(&models.Article{}).
		Where(slugQueryPattern, slug).
		Where("id <> ?", exceptID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrSlugTaken
	}

	return nil
}

func checkCategory(db *gorm.DB, categoryID *uint64) error {
	if categoryID == nil {
		return nil
	}

	var n int64
	if err := db.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidCategory
	}

	return nil
}
