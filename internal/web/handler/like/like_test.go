package like

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-api/inkwell/internal/db/controller/article"
	likecontroller "github.com/inkwell-api/inkwell/internal/db/controller/like"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler/handlertest"
)

func TestLifecycle(t *testing.T) {
	env := handlertest.New(t, &Service{})
	author := env.User("author@example.com", models.RoleModerator)
	fan := env.User("fan@example.com", models.RoleUser)
	token := env.Token(fan)

	a, err := article.Create(env.DB, article.Input{Title: "Post", Body: "text"}, author.ID)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, env.StatusOf(http.MethodGet, "/likes/", "", nil))
	assert.Equal(t, http.StatusUnauthorized, env.StatusOf(http.MethodPost, "/likes/", "", map[string]any{"article": a.ID}))

	resp := env.Do(http.MethodPost, "/likes/", token, map[string]any{"article": a.ID})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	created := resp.Map(t)
	assert.InDelta(t, float64(fan.ID), created["user"], 0)
	assert.InDelta(t, float64(a.ID), created["article"], 0)

	likes, err := likecontroller.List(env.DB, likecontroller.Filter{ArticleID: &a.ID})
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	dup := env.Do(http.MethodPost, "/likes/", token, map[string]any{"article": a.ID})
	assert.Equal(t, http.StatusBadRequest, dup.Status)
	assert.Equal(t, "You have already liked this article.", dup.Map(t)["detail"])

	list := env.Do(http.MethodGet, fmt.Sprintf("/likes/?article=%d", a.ID), token, nil).List(t)
	require.Len(t, list, 1)

	item := fmt.Sprintf("/likes/%d/", uint64(created["id"].(float64)))
	assert.Equal(t, http.StatusOK, env.StatusOf(http.MethodGet, item, token, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, env.StatusOf(http.MethodPut, item, token, map[string]any{"article": a.ID}))
	assert.Equal(t, http.StatusMethodNotAllowed, env.StatusOf(http.MethodPatch, item, token, map[string]any{"article": a.ID}))

	assert.Equal(t, http.StatusNoContent, env.StatusOf(http.MethodDelete, item, token, nil))

	likes, err = likecontroller.List(env.DB, likecontroller.Filter{ArticleID: &a.ID})
	require.NoError(t, err)
	assert.Empty(t, likes)

	// liking again after unliking works
	assert.Equal(t, http.StatusCreated, env.StatusOf(http.MethodPost, "/likes/", token, map[string]any{"article": a.ID}))
}

func TestCreateValidation(t *testing.T) {
	env := handlertest.New(t, &Service{})
	token := env.Token(env.User("fan@example.com", models.RoleUser))

	assert.Equal(t, http.StatusBadRequest, env.StatusOf(http.MethodPost, "/likes/", token, map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, env.StatusOf(http.MethodPost, "/likes/", token, map[string]any{"article": 9999}))
}

func TestDeleteOwnership(t *testing.T) {
	env := handlertest.New(t, &Service{})
	moderator := env.User("mod@example.com", models.RoleModerator)
	fan := env.User("fan@example.com", models.RoleUser)
	stranger := env.User("stranger@example.com", models.RoleUser)

	a, err := article.Create(env.DB, article.Input{Title: "Post", Body: "text"}, moderator.ID)
	require.NoError(t, err)

	l, err := likecontroller.Create(env.DB, a.ID, fan.ID)
	require.NoError(t, err)
	item := fmt.Sprintf("/likes/%d/", l.ID)

	assert.Equal(t, http.StatusForbidden, env.StatusOf(http.MethodDelete, item, env.Token(stranger), nil))
	assert.Equal(t, http.StatusNoContent, env.StatusOf(http.MethodDelete, item, env.Token(moderator), nil))
	assert.Equal(t, http.StatusNotFound, env.StatusOf(http.MethodDelete, item, env.Token(fan), nil))
}
