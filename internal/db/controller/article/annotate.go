package article

import (
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/db/models"
)

// Annotated is an article with its social counters for one viewer.
type Annotated struct {
	models.Article
	LikesCount    int64
	CommentsCount int64
	IsLiked       bool
}

type annotationRow struct {
	ArticleID     uint64
	LikesCount    int64
	CommentsCount int64
	Liked         int64
}

// Annotate computes like count, comment count (replies included) and whether viewerID liked
// each article, using one grouped query for the whole page. A zero viewerID never likes anything.
// The result keeps the order of articles.
func Annotate(db *gorm.DB, articles []models.Article, viewerID uint64) ([]Annotated, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	out := make([]Annotated, len(articles))
	if len(articles) == 0 {
		return out, nil
	}

	ids := make([]uint64, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}

	likedExpr := "0"
	var likedArgs []any
	if viewerID != 0 {
		likedExpr = "MAX(CASE WHEN likes.user_id = ? THEN 1 ELSE 0 END)"
		likedArgs = append(likedArgs, viewerID)
	}

	// DISTINCT keeps the likes x comments join product out of the counts
	var rows []annotationRow
	if err := db.Table("articles").
		Select("articles.id AS article_id, "+
			"COUNT(DISTINCT likes.id) AS likes_count, "+
			"COUNT(DISTINCT comments.id) AS comments_count, "+
			likedExpr+" AS liked", likedArgs...).
		Joins("LEFT JOIN likes ON likes.article_id = articles.id").
		Joins("LEFT JOIN comments ON comments.article_id = articles.id").
		Where("articles.id IN ?", ids).
		Group("articles.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint64]annotationRow, len(rows))
	for _, r := range rows {
		byID[r.ArticleID] = r
	}

	for i := range articles {
		r := byID[articles[i].ID]
		out[i] = Annotated{
			Article:       articles[i],
			LikesCount:    r.LikesCount,
			CommentsCount: r.CommentsCount,
			IsLiked:       r.Liked > 0,
		}
	}

	return out, nil
}
