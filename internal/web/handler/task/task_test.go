package task

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-api/inkwell/internal/db/controller/category"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler/handlertest"
)

func TestCRUD(t *testing.T) {
	env := handlertest.New(t, &Service{})
	u := env.User("reader@example.com", models.RoleUser)
	token := env.Token(u)

	cat, err := category.Create(env.DB, "Home", "", u.ID)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, env.StatusOf(http.MethodGet, "/tasks/", "", nil))

	resp := env.Do(http.MethodPost, "/tasks/", token, map[string]any{"title": "Dishes", "category": cat.ID})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	first := resp.Map(t)
	assert.Equal(t, "Low", first["priority"])
	assert.Equal(t, false, first["completed"])
	assert.InDelta(t, float64(cat.ID), first["category"], 0)

	resp = env.Do(http.MethodPost, "/tasks/", token, map[string]any{"title": "Taxes", "priority": "High"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"priority": "Low"}},
		{"bad priority", map[string]any{"title": "x", "priority": "Urgent"}},
		{"unknown category", map[string]any{"title": "x", "category": 999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, env.StatusOf(http.MethodPost, "/tasks/", token, tt.body))
		})
	}

	list := env.Do(http.MethodGet, "/tasks/", token, nil).List(t)
	require.Len(t, list, 2)
	assert.Equal(t, "Taxes", list[0]["title"])

	byCategory := env.Do(http.MethodGet, fmt.Sprintf("/tasks/?category=%d", cat.ID), token, nil).List(t)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Dishes", byCategory[0]["title"])

	item := fmt.Sprintf("/tasks/%d/", uint64(first["id"].(float64)))

	resp = env.Do(http.MethodPatch, item, token, map[string]any{"completed": true, "priority": "Medium"})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	updated := resp.Map(t)
	assert.Equal(t, true, updated["completed"])
	assert.Equal(t, "Medium", updated["priority"])
	assert.Equal(t, "Dishes", updated["title"])

	assert.Equal(t, http.StatusNoContent, env.StatusOf(http.MethodDelete, item, token, nil))
	assert.Equal(t, http.StatusNotFound, env.StatusOf(http.MethodGet, item, token, nil))
}
