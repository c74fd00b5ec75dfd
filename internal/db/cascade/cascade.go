// Package cascade removes dependent rows inside a transaction so deletes behave the same
// on every engine, whether or not foreign key enforcement is active.
package cascade

import (
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/db/models"
)

// tables carrying the audit columns
var auditedTables = []string{"articles", "comments", "likes", "tasks", "categories"}

// Comments deletes the given comments and every reply below them, at any depth.
func Comments(tx *gorm.DB, ids []uint64) error {
	all := append([]uint64(nil), ids...)
	level := ids

	for len(level) > 0 {
		var next []uint64
		if err := tx.Model(&models.Comment{}).
			Where("parent_id IN ?", level).
			Pluck("id", &next).Error; err != nil {
			return err
		}

		all = append(all, next...)
		level = next
	}

	if len(all) == 0 {
		return nil
	}

	// children first so a parent never disappears under a live reply
	for i := len(all) - 1; i >= 0; i-- {
		if err := tx.Delete(&models.Comment{}, all[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Articles deletes the given articles with their likes and comments.
func Articles(tx *gorm.DB, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	if err := tx.Where("article_id IN ?", ids).Delete(&models.Like{}).Error; err != nil {
		return err
	}

	var commentIDs []uint64
	if err := tx.Model(&models.Comment{}).
		Where("article_id IN ? AND parent_id IS NULL", ids).
		Pluck("id", &commentIDs).Error; err != nil {
		return err
	}

	if err := Comments(tx, commentIDs); err != nil {
		return err
	}

	// orphans left by replies whose parent was on another article
	if err := tx.Where("article_id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	return tx.Where("id IN ?", ids).Delete(&models.Article{}).Error
}

// Category clears the category of its articles, deletes its tasks and then the category itself.
// It reports the number of deleted categories.
func Category(tx *gorm.DB, id uint64) (int64, error) {
	if err := tx.Model(&models.Article{}).
		Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return 0, err
	}

	if err := tx.Where("category_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return 0, err
	}

	result := tx.Delete(&models.Category{}, id)

	return result.RowsAffected, result.Error
}

// User deletes a user with the articles, comments and likes they own and clears audit
// references to them. It reports the number of deleted users.
func User(tx *gorm.DB, id uint64) (int64, error) {
	var articleIDs []uint64
	if err := tx.Model(&models.Article{}).
		Where("author_id = ?", id).
		Pluck("id", &articleIDs).Error; err != nil {
		return 0, err
	}

	if err := Articles(tx, articleIDs); err != nil {
		return 0, err
	}

	var commentIDs []uint64
	if err := tx.Model(&models.Comment{}).
		Where("author_id = ?", id).
		Pluck("id", &commentIDs).Error; err != nil {
		return 0, err
	}

	if err := Comments(tx, commentIDs); err != nil {
		return 0, err
	}

	if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		return 0, err
	}

	for _, table := range auditedTables {
		for _, column := range []string{"created_by_id", "updated_by_id"} {
			if err := tx.Table(table).
				Where(column+" = ?", id).
				Update(column, nil).Error; err != nil {
				return 0, err
			}
		}
	}

	result := tx.Delete(&models.User{}, id)

	return result.RowsAffected, result.Error
}
