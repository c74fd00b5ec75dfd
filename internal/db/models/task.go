package models

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Task is a to-do item, optionally filed under a category.
type Task struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CategoryID  *uint64   `gorm:"index" json:"category"`
	Category    *Category `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Priority    Priority  `gorm:"type:varchar(10);not null;default:'Low'" json:"priority"`
	Audit
}

// TableName specifies the database table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// Valid reports whether p is a defined priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
