package models

// Like records that a user likes an article. A user likes an article at most once.
type Like struct {
	ID        uint64   `gorm:"primaryKey" json:"id"`
	ArticleID uint64   `gorm:"not null;uniqueIndex:idx_like_article_user" json:"article"`
	Article   *Article `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint64   `gorm:"not null;uniqueIndex:idx_like_article_user;index" json:"user"`
	User      *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Audit
}

// TableName specifies the database table name for the Like model.
func (Like) TableName() string {
	return "likes"
}
