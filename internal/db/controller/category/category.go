// Package category provides CRUD operations for categories.
package category

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/cascade"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

const maxNameLen = 100

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = apierr.New(apierr.ErrNotFound, "Category not found.")
	// ErrNameEmpty is returned for a category without a name.
	ErrNameEmpty = apierr.New(apierr.ErrValidation, "Name may not be blank.")
	// ErrNameTooLong is returned for a name longer than 100 characters.
	ErrNameTooLong = apierr.New(apierr.ErrValidation, "Ensure name has no more than 100 characters.")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// WithTasks is a category together with its tasks.
type WithTasks struct {
	models.Category
	Tasks []models.Task
}

// List returns every category ordered by id.
func List(db *gorm.DB) ([]models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var categories []models.Category
	if err := db.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// Get retrieves a category by its ID.
func Get(db *gorm.DB, id uint64) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Category
	result := db.First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// GetWithTasks retrieves a category and its tasks, newest task first.
func GetWithTasks(db *gorm.DB, id uint64) (*WithTasks, error) {
	c, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	out := &WithTasks{Category: *c, Tasks: []models.Task{}}
	if err := db.Where("category_id = ?", id).
		Order("created_at DESC, id DESC").
		Find(&out.Tasks).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// Create stores a new category on behalf of userID.
func Create(db *gorm.DB, name, description string, userID uint64) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := validateName(name); err != nil {
		return nil, err
	}

	c := &models.Category{Name: name, Description: description}
	c.StampCreated(userID)

	if err := db.Create(c).Error; err != nil {
		return nil, err
	}

	return c, nil
}

// Update changes name and description. Nil fields are left alone.
func Update(db *gorm.DB, id uint64, name, description *string, userID uint64) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	values := map[string]any{"updated_by_id": userID}

	if name != nil {
		if err := validateName(*name); err != nil {
			return nil, err
		}
		values["name"] = *name
	}

	if description != nil {
		values["description"] = *description
	}

	result := db.Model(&models.Category{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCategoryNotFound
	}

	return Get(db, id)
}

// Delete deletes a category and its tasks; its articles lose the category.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		n, err := cascade.Category(tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCategoryNotFound
		}

		return nil
	})
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameEmpty
	}

	if len([]rune(name)) > maxNameLen {
		return ErrNameTooLong
	}

	return nil
}
