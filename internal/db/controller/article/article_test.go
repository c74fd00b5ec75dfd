package article

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/db/dbtest"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

func ptr[T any](v T) *T {
	return &v
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()

	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{Email: fmt.Sprintf("u%d@example.com", i), Password: "x", Active: true}
		require.NoError(t, db.Create(&users[i]).Error)
	}

	return users
}

func TestAnnotate(t *testing.T) {
	db := dbtest.Open(t)
	users := seedUsers(t, db, 4)
	viewer := users[0]

	first, err := Create(db, Input{Title: "First", Body: "b"}, users[1].ID)
	require.NoError(t, err)
	second, err := Create(db, Input{Title: "Second", Body: "b"}, users[1].ID)
	require.NoError(t, err)

	for _, u := range users[:3] {
		require.NoError(t, db.Create(&models.Like{ArticleID: first.ID, UserID: u.ID}).Error)
	}
	require.NoError(t, db.Create(&models.Comment{ArticleID: first.ID, AuthorID: users[2].ID, Body: "c"}).Error)

	got, err := Annotate(db, []models.Article{*first, *second}, viewer.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, int64(3), got[0].LikesCount)
	assert.Equal(t, int64(1), got[0].CommentsCount)
	assert.True(t, got[0].IsLiked)

	assert.Equal(t, second.ID, got[1].ID)
	assert.Zero(t, got[1].LikesCount)
	assert.Zero(t, got[1].CommentsCount)
	assert.False(t, got[1].IsLiked)

	anonymous, err := Annotate(db, []models.Article{*first, *second}, 0)
	require.NoError(t, err)
	assert.False(t, anonymous[0].IsLiked)
	assert.Equal(t, int64(3), anonymous[0].LikesCount)

	nonLiker, err := Annotate(db, []models.Article{*first}, users[3].ID)
	require.NoError(t, err)
	assert.False(t, nonLiker[0].IsLiked)
}

func TestAnnotateCountsRepliesWithoutDuplicates(t *testing.T) {
	db := dbtest.Open(t)
	users := seedUsers(t, db, 3)

	a, err := Create(db, Input{Title: "Threaded", Body: "b"}, users[0].ID)
	require.NoError(t, err)

	top := models.Comment{ArticleID: a.ID, AuthorID: users[0].ID, Body: "top"}
	require.NoError(t, db.Create(&top).Error)
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.Comment{ArticleID: a.ID, AuthorID: users[1].ID, Body: "r", ParentID: &top.ID}).Error)
	}
	for _, u := range users {
		require.NoError(t, db.Create(&models.Like{ArticleID: a.ID, UserID: u.ID}).Error)
	}

	got, err := Annotate(db, []models.Article{*a}, users[2].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got[0].LikesCount)
	assert.Equal(t, int64(3), got[0].CommentsCount)
	assert.True(t, got[0].IsLiked)
}

func TestAnnotateEmpty(t *testing.T) {
	db := dbtest.Open(t)

	got, err := Annotate(db, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Annotate(nil, nil, 1)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestCreate(t *testing.T) {
	db := dbtest.Open(t)
	users := seedUsers(t, db, 1)
	author := users[0].ID

	cat := models.Category{Name: "Go", Description: "d"}
	require.NoError(t, db.Create(&cat).Error)

	testCases := []struct {
		name          string
		input         Input
		expectedError error
	}{
		{name: "missing title", input: Input{Body: "b"}, expectedError: ErrTitleEmpty},
		{name: "missing body", input: Input{Title: "t"}, expectedError: ErrBodyEmpty},
		{name: "bad status", input: Input{Title: "t", Body: "b", Status: "Lost"}, expectedError: ErrInvalidStatus},
		{name: "bad slug", input: Input{Title: "t", Body: "b", Slug: "no spaces"}, expectedError: ErrInvalidSlug},
		{name: "bad category", input: Input{Title: "t", Body: "b", CategoryID: ptr(uint64(77))}, expectedError: ErrInvalidCategory},
		{name: "explicit slug", input: Input{Title: "Hello", Body: "b", Slug: "hello", CategoryID: &cat.ID, Status: models.ArticlePublished}},
		{name: "slug clash", input: Input{Title: "Hello", Body: "b", Slug: "hello"}, expectedError: ErrSlugTaken},
		{name: "generated slug", input: Input{Title: "Hello, World!", Body: "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Create(db, tc.input, author)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, author, a.AuthorID)
			require.NotNil(t, a.CreatedByID)
			assert.Equal(t, author, *a.CreatedByID)
			require.NotNil(t, a.Author)
			assert.Equal(t, "u0@example.com", a.Author.Email)

			if tc.input.Slug == "" {
				assert.True(t, strings.HasPrefix(a.Slug, "hello-world-"), a.Slug)
				assert.Equal(t, models.ArticleDraft, a.Status)
			} else {
				require.NotNil(t, a.Category)
				assert.Equal(t, "Go", a.Category.Name)
			}
		})
	}
}

func TestListFiltersAndOrdering(t *testing.T) {
	db := dbtest.Open(t)
	users := seedUsers(t, db, 2)

	cat := models.Category{Name: "Go", Description: "d"}
	require.NoError(t, db.Create(&cat).Error)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []models.Article{
		{Title: "Bravo", Slug: "bravo", Body: "gophers", AuthorID: users[0].ID, Status: models.ArticlePublished, CategoryID: &cat.ID},
		{Title: "Alpha", Slug: "alpha", Body: "50% off", AuthorID: users[1].ID, Status: models.ArticleDraft},
		{Title: "Charlie", Slug: "charlie", Body: "b", Excerpt: "about GOPHERS", AuthorID: users[0].ID, Status: models.ArticleDraft},
	}
	for i := range seed {
		seed[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		seed[i].UpdatedAt = seed[i].CreatedAt
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	testCases := []struct {
		name          string
		filter        Filter
		expected      []string
		expectedError error
	}{
		{name: "newest first by default", expected: []string{"Charlie", "Alpha", "Bravo"}},
		{name: "oldest first", filter: Filter{Ordering: "created_at"}, expected: []string{"Bravo", "Alpha", "Charlie"}},
		{name: "title", filter: Filter{Ordering: "title"}, expected: []string{"Alpha", "Bravo", "Charlie"}},
		{name: "title descending", filter: Filter{Ordering: "-title"}, expected: []string{"Charlie", "Bravo", "Alpha"}},
		{name: "unknown ordering", filter: Filter{Ordering: "body"}, expectedError: ErrInvalidOrdering},
		{name: "status", filter: Filter{Status: models.ArticleDraft}, expected: []string{"Charlie", "Alpha"}},
		{name: "category", filter: Filter{CategoryID: &cat.ID}, expected: []string{"Bravo"}},
		{name: "author", filter: Filter{AuthorID: &users[1].ID}, expected: []string{"Alpha"}},
		{name: "search body and excerpt", filter: Filter{Search: "gopher"}, expected: []string{"Charlie", "Bravo"}},
		{name: "search slug", filter: Filter{Search: "alph"}, expected: []string{"Alpha"}},
		{name: "search literal percent", filter: Filter{Search: "%"}, expected: []string{"Alpha"}},
		{name: "search literal underscore", filter: Filter{Search: "50_"}, expected: []string{}},
		{name: "limit offset", filter: Filter{Limit: 1, Offset: 1}, expected: []string{"Alpha"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := List(db, tc.filter, users[0].ID)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)

			titles := make([]string, 0, len(got))
			for _, a := range got {
				titles = append(titles, a.Title)
			}
			assert.Equal(t, tc.expected, titles)
		})
	}
}

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)
	users := seedUsers(t, db, 2)

	a, err := Create(db, Input{Title: "Old", Body: "b", Slug: "old"}, users[0].ID)
	require.NoError(t, err)
	_, err = Create(db, Input{Title: "Other", Body: "b", Slug: "other"}, users[0].ID)
	require.NoError(t, err)

	got, err := Update(db, a.ID, Changes{Title: ptr("New"), Status: ptr(models.ArticleArchived)}, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "old", got.Slug)
	assert.Equal(t, models.ArticleArchived, got.Status)
	require.NotNil(t, got.UpdatedByID)
	assert.Equal(t, users[1].ID, *got.UpdatedByID)
	assert.Equal(t, users[0].ID, *got.CreatedByID)

	_, err = Update(db, a.ID, Changes{Slug: ptr("other")}, users[0].ID)
	require.ErrorIs(t, err, ErrSlugTaken)

	_, err = Update(db, a.ID, Changes{Slug: ptr("old")}, users[0].ID)
	require.NoError(t, err)

	_, err = Update(db, a.ID, Changes{Title: ptr(" ")}, users[0].ID)
	require.ErrorIs(t, err, ErrTitleEmpty)

	_, err = Update(db, 404, Changes{}, users[0].ID)
	require.ErrorIs(t, err, ErrArticleNotFound)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)
	users := seedUsers(t, db, 1)

	a, err := Create(db, Input{Title: "Gone", Body: "b"}, users[0].ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Like{ArticleID: a.ID, UserID: users[0].ID}).Error)
	require.NoError(t, db.Create(&models.Comment{ArticleID: a.ID, AuthorID: users[0].ID, Body: "c"}).Error)

	require.NoError(t, Delete(db, a.ID))
	require.ErrorIs(t, Delete(db, a.ID), ErrArticleNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Like{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("  Hello, World! "))
	assert.Empty(t, Slugify("!!!"))
	assert.Len(t, Slugify(strings.Repeat("a", 300)), maxSlugBase)
	assert.Equal(t, "cafe-uber", Slugify("Café Über"))
	assert.Equal(t, "go-tips-and-tricks", Slugify("Go Tips & Tricks"))
	assert.NotEmpty(t, Slugify("你好世界"))
	assert.True(t, ValidSlug(Slugify("你好世界")))
	assert.True(t, ValidSlug("go_1-2"))
	assert.False(t, ValidSlug("go 1"))
}
