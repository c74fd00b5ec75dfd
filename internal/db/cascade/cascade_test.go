package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/db/dbtest"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

type fixture struct {
	alice, bob models.User
	category   models.Category
	article    models.Article
	top        models.Comment
	reply      models.Comment
	deep       models.Comment
	task       models.Task
}

func seed(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	f := &fixture{
		alice: models.User{Email: "alice@example.com", Password: "x", Active: true},
		bob:   models.User{Email: "bob@example.com", Password: "x", Active: true},
	}
	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)

	f.category = models.Category{Name: "Tech", Description: "d"}
	f.category.StampCreated(f.bob.ID)
	require.NoError(t, db.Create(&f.category).Error)

	f.article = models.Article{Title: "T", Slug: "t", Body: "b", AuthorID: f.alice.ID, CategoryID: &f.category.ID}
	require.NoError(t, db.Create(&f.article).Error)

	f.top = models.Comment{ArticleID: f.article.ID, AuthorID: f.bob.ID, Body: "top"}
	require.NoError(t, db.Create(&f.top).Error)

	f.reply = models.Comment{ArticleID: f.article.ID, AuthorID: f.alice.ID, Body: "reply", ParentID: &f.top.ID}
	require.NoError(t, db.Create(&f.reply).Error)

	f.deep = models.Comment{ArticleID: f.article.ID, AuthorID: f.bob.ID, Body: "deep", ParentID: &f.reply.ID}
	require.NoError(t, db.Create(&f.deep).Error)

	require.NoError(t, db.Create(&models.Like{ArticleID: f.article.ID, UserID: f.bob.ID}).Error)

	f.task = models.Task{Title: "todo", Description: "d", CategoryID: &f.category.ID}
	require.NoError(t, db.Create(&f.task).Error)

	return f
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)

	return n
}

func TestCommentsRemovesAllDepths(t *testing.T) {
	db := dbtest.Open(t)
	f := seed(t, db)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Comments(tx, []uint64{f.top.ID})
	}))

	assert.Zero(t, count(t, db, &models.Comment{}))
	assert.Equal(t, int64(1), count(t, db, &models.Article{}))
}

func TestCommentsEmpty(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, Comments(db, nil))
}

func TestArticles(t *testing.T) {
	db := dbtest.Open(t)
	f := seed(t, db)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Articles(tx, []uint64{f.article.ID})
	}))

	assert.Zero(t, count(t, db, &models.Article{}))
	assert.Zero(t, count(t, db, &models.Comment{}))
	assert.Zero(t, count(t, db, &models.Like{}))
	assert.Equal(t, int64(2), count(t, db, &models.User{}))
}

func TestCategory(t *testing.T) {
	db := dbtest.Open(t)
	f := seed(t, db)

	var n int64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = Category(tx, f.category.ID)
		return err
	}))

	assert.Equal(t, int64(1), n)
	assert.Zero(t, count(t, db, &models.Task{}))

	var a models.Article
	require.NoError(t, db.First(&a, f.article.ID).Error)
	assert.Nil(t, a.CategoryID)
}

func TestUser(t *testing.T) {
	db := dbtest.Open(t)
	f := seed(t, db)

	var n int64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = User(tx, f.bob.ID)
		return err
	}))

	assert.Equal(t, int64(1), n)

	// bob's like and comments are gone, with alice's reply below bob's comment
	assert.Zero(t, count(t, db, &models.Like{}))
	assert.Zero(t, count(t, db, &models.Comment{}))
	assert.Equal(t, int64(1), count(t, db, &models.Article{}))

	var c models.Category
	require.NoError(t, db.First(&c, f.category.ID).Error)
	assert.Nil(t, c.CreatedByID)
	assert.Nil(t, c.UpdatedByID)
}

func TestUserAuthorRemovesArticles(t *testing.T) {
	db := dbtest.Open(t)
	f := seed(t, db)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := User(tx, f.alice.ID)
		return err
	}))

	assert.Zero(t, count(t, db, &models.Article{}))
	assert.Zero(t, count(t, db, &models.Comment{}))
	assert.Equal(t, int64(1), count(t, db, &models.Category{}))
}
