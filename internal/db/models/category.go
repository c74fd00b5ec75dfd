package models

// Category groups articles and tasks.
type Category struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	Audit
}

// TableName specifies the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}
