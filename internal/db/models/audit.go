package models

import "time"

// Audit holds the bookkeeping columns shared by content models.
// DeletedAt is a plain pointer rather than gorm.DeletedAt: rows are always hard deleted
// and queries never filter on it.
type Audit struct {
	// CreatedByID is the user that created the row, cleared when that user is deleted.
	CreatedByID *uint64 `gorm:"index" json:"created_by"`
	// CreatedAt is set once on insert (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is refreshed on every update (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
	// UpdatedByID is the user of the last update, cleared when that user is deleted.
	UpdatedByID *uint64 `gorm:"index" json:"updated_by"`
	// DeletedAt marks a row as deleted when set.
	DeletedAt *time.Time `json:"deleted_at"`
}

// IsDeleted reports whether DeletedAt is set.
func (a *Audit) IsDeleted() bool {
	return a.DeletedAt != nil
}

// StampCreated records userID as creator and last updater. A zero userID records nobody.
func (a *Audit) StampCreated(userID uint64) {
	if userID == 0 {
		return
	}

	a.CreatedByID = &userID
	a.UpdatedByID = &userID
}

// StampUpdated records userID as last updater.
func (a *Audit) StampUpdated(userID uint64) {
	if userID == 0 {
		return
	}

	a.UpdatedByID = &userID
}
