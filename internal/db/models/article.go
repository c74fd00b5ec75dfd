package models

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "Draft"
	ArticlePublished ArticleStatus = "Published"
	ArticleArchived  ArticleStatus = "Archived"
)

// Valid reports whether s is a defined status.
func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleDraft, ArticlePublished, ArticleArchived:
		return true
	default:
		return false
	}
}

// Article is a piece of content written by a user.
type Article struct {
	ID         uint64        `gorm:"primaryKey" json:"id"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	Slug       string        `gorm:"unique;size:255;not null" json:"slug"`
	Body       string        `gorm:"type:text;not null" json:"body"`
	Excerpt    string        `gorm:"type:text;not null;default:''" json:"excerpt"`
	AuthorID   uint64        `gorm:"index;not null" json:"author"`
	Author     *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID *uint64       `gorm:"index" json:"category"`
	Category   *Category     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Status     ArticleStatus `gorm:"type:varchar(10);not null;default:'Draft'" json:"status"`
	Audit
}

// TableName specifies the database table name for the Article model.
func (Article) TableName() string {
	return "articles"
}
