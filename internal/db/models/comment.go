package models

// Comment on an article. Replies point at their parent comment.
type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	ArticleID uint64    `gorm:"index;not null" json:"article"`
	Article   *Article  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint64    `gorm:"index;not null" json:"author"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ParentID  *uint64   `gorm:"index" json:"parent"`
	Parent    *Comment  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Replies   []Comment `gorm:"-" json:"-"`
	Audit
}

// TableName specifies the database table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}
