package comment

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-api/inkwell/internal/db/controller/article"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler/handlertest"
)

const commenterRole = "Commenter"

type fixture struct {
	env       *handlertest.Env
	articleID uint64
	reader    *models.User
	alice     *models.User
	bob       *models.User
	moderator *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env := handlertest.New(t, &Service{})
	env.Role(commenterRole, models.PermissionComment)

	f := &fixture{
		env:       env,
		reader:    env.User("reader@example.com", models.RoleUser),
		alice:     env.User("alice@example.com", commenterRole),
		bob:       env.User("bob@example.com", commenterRole),
		moderator: env.User("mod@example.com", models.RoleModerator),
	}

	a, err := article.Create(env.DB, article.Input{Title: "Post", Body: "text"}, f.moderator.ID)
	require.NoError(t, err)
	f.articleID = a.ID

	return f
}

func (f *fixture) comment(t *testing.T, u *models.User, body map[string]any) map[string]any {
	t.Helper()

	resp := f.env.Do(http.MethodPost, "/comments/", f.env.Token(u), body)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	return resp.Map(t)
}

func TestOwnership(t *testing.T) {
	f := newFixture(t)
	env := f.env

	c := f.comment(t, f.alice, map[string]any{"article": f.articleID, "body": "first!"})
	assert.Equal(t, "alice@example.com", c["author_email"])
	assert.Equal(t, []any{}, c["replies"])
	item := fmt.Sprintf("/comments/%d/", uint64(c["id"].(float64)))

	assert.Equal(t, http.StatusUnauthorized, env.StatusOf(http.MethodGet, "/comments/", "", nil))
	assert.Equal(t, http.StatusForbidden, env.StatusOf(http.MethodPost, "/comments/", env.Token(f.reader), map[string]any{
		"article": f.articleID, "body": "hi",
	}))

	resp := env.Do(http.MethodPatch, item, env.Token(f.bob), map[string]any{"body": "hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = env.Do(http.MethodPatch, item, env.Token(f.alice), map[string]any{"body": "edited"})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	assert.Equal(t, "edited", resp.Map(t)["body"])

	assert.Equal(t, http.StatusForbidden, env.StatusOf(http.MethodDelete, item, env.Token(f.bob), nil))
	assert.Equal(t, http.StatusNoContent, env.StatusOf(http.MethodDelete, item, env.Token(f.moderator), nil))
	assert.Equal(t, http.StatusNotFound, env.StatusOf(http.MethodGet, item, env.Token(f.alice), nil))

	own := f.comment(t, f.bob, map[string]any{"article": f.articleID, "body": "mine"})
	ownItem := fmt.Sprintf("/comments/%d/", uint64(own["id"].(float64)))
	assert.Equal(t, http.StatusNoContent, env.StatusOf(http.MethodDelete, ownItem, env.Token(f.bob), nil))
}

func TestThreadedList(t *testing.T) {
	f := newFixture(t)
	env := f.env

	top := f.comment(t, f.alice, map[string]any{"article": f.articleID, "body": "top"})
	topID := uint64(top["id"].(float64))

	r1 := f.comment(t, f.bob, map[string]any{"article": f.articleID, "body": "reply one", "parent": topID})
	f.comment(t, f.alice, map[string]any{"article": f.articleID, "body": "reply two", "parent": topID})
	f.comment(t, f.alice, map[string]any{
		"article": f.articleID, "body": "nested", "parent": uint64(r1["id"].(float64)),
	})
	f.comment(t, f.bob, map[string]any{"article": f.articleID, "body": "second top"})

	list := env.Do(http.MethodGet, fmt.Sprintf("/comments/?article=%d", f.articleID), env.Token(f.reader), nil).List(t)
	require.Len(t, list, 2)
	assert.Equal(t, "top", list[0]["body"])
	assert.Equal(t, "second top", list[1]["body"])

	replies, ok := list[0]["replies"].([]any)
	require.True(t, ok)
	require.Len(t, replies, 2)
	assert.Equal(t, "reply one", replies[0].(map[string]any)["body"])
	assert.Equal(t, "bob@example.com", replies[0].(map[string]any)["author_email"])
	assert.Equal(t, "reply two", replies[1].(map[string]any)["body"])
	assert.Equal(t, []any{}, list[1]["replies"])

	// deleting the top comment removes the whole thread
	item := fmt.Sprintf("/comments/%d/", topID)
	require.Equal(t, http.StatusNoContent, env.StatusOf(http.MethodDelete, item, env.Token(f.alice), nil))

	list = env.Do(http.MethodGet, "/comments/", env.Token(f.reader), nil).List(t)
	require.Len(t, list, 1)
	assert.Equal(t, "second top", list[0]["body"])
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	env := f.env
	token := env.Token(f.alice)

	other, err := article.Create(env.DB, article.Input{Title: "Other", Body: "text"}, f.moderator.ID)
	require.NoError(t, err)

	foreign := f.comment(t, f.alice, map[string]any{"article": other.ID, "body": "elsewhere"})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing body", map[string]any{"article": f.articleID}},
		{"missing article", map[string]any{"body": "x"}},
		{"unknown article", map[string]any{"article": 9999, "body": "x"}},
		{"unknown parent", map[string]any{"article": f.articleID, "body": "x", "parent": 9999}},
		{"parent on other article", map[string]any{"article": f.articleID, "body": "x", "parent": foreign["id"]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, env.StatusOf(http.MethodPost, "/comments/", token, tt.body))
		})
	}
}
