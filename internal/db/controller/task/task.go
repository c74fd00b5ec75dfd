// Package task provides CRUD operations for tasks.
package task

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

const maxTitleLen = 200

var (
	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = apierr.New(apierr.ErrNotFound, "Task not found.")
	// ErrTitleEmpty is returned for a task without a title.
	ErrTitleEmpty = apierr.New(apierr.ErrValidation, "Title may not be blank.")
	// ErrTitleTooLong is returned for a title longer than 200 characters.
	ErrTitleTooLong = apierr.New(apierr.ErrValidation, "Ensure title has no more than 200 characters.")
	// ErrInvalidPriority is returned for a priority outside Low, Medium and High.
	ErrInvalidPriority = apierr.New(apierr.ErrValidation, "Invalid priority.")
	// ErrInvalidCategory is returned when the referenced category does not exist.
	ErrInvalidCategory = apierr.New(apierr.ErrValidation, "Invalid category.")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Input holds the fields of a new task.
type Input struct {
	Title       string
	Description string
	Completed   bool
	CategoryID  *uint64
	Priority    models.Priority
}

// Changes is a partial update. Nil fields are left alone; a CategoryID pointing at 0 clears the category.
type Changes struct {
	Title       *string
	Description *string
	Completed   *bool
	CategoryID  *uint64
	Priority    *models.Priority
}

// List returns tasks newest first, optionally only those of one category.
func List(db *gorm.DB, categoryID *uint64) ([]models.Task, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Order("created_at DESC, id DESC")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Get retrieves a task by its ID.
func Get(db *gorm.DB, id uint64) (*models.Task, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.Task
	result := db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}

	return &t, nil
}

// Create stores a new task on behalf of userID. Priority defaults to Low.
func Create(db *gorm.DB, in Input, userID uint64) (*models.Task, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}

	if in.Priority == "" {
		in.Priority = models.PriorityLow
	}

	if !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}

	if err := checkCategory(db, in.CategoryID); err != nil {
		return nil, err
	}

	t := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CategoryID:  in.CategoryID,
		Priority:    in.Priority,
	}
	t.StampCreated(userID)

	if err := db.Create(t).Error; err != nil {
		return nil, err
	}

	return t, nil
}

// Update applies a partial update on behalf of userID.
func Update(db *gorm.DB, id uint64, c Changes, userID uint64) (*models.Task, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	values := map[string]any{"updated_by_id": userID}

	if c.Title != nil {
		if err := validateTitle(*c.Title); err != nil {
			return nil, err
		}
		values["title"] = *c.Title
	}

	if c.Description != nil {
		values["description"] = *c.Description
	}

	if c.Completed != nil {
		values["completed"] = *c.Completed
	}

	if c.Priority != nil {
		if !c.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		values["priority"] = string(*c.Priority)
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

	if err := db.Model(&models.Task{}).Where("id = ?", id).Updates(values).Error; err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete deletes a task by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleEmpty
	}

	if len([]rune(title)) > maxTitleLen {
		return ErrTitleTooLong
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
