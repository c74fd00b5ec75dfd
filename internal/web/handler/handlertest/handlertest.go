// Package handlertest builds API apps over an in-memory database for handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	"github.com/inkwell-api/inkwell/internal/db/controller/role"
	"github.com/inkwell-api/inkwell/internal/db/controller/user"
	"github.com/inkwell-api/inkwell/internal/db/dbtest"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

// Password is the password of every user created by Env.User.
const Password = "password123"

// Env is an API app with its database and token service.
type Env struct {
	T      testing.TB
	DB     *gorm.DB
	Cfg    *config.Config
	App    *fiber.App
	Tokens *auth.TokenService
}

// Config returns a valid configuration for tests.
func Config() *config.Config {
	return &config.Config{
		Title: "inkwell-test",
		DB:    config.DB{GormEngine: config.EngineSQLite},
		Webserver: config.Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		Auth: config.Auth{
			JWTSecret:       "0123456789abcdef0123456789abcdef",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			ResetTokenTTL:   72 * time.Hour,
			DefaultRole:     models.RoleUser,
		},
	}
}

// New seeds the default roles and mounts services below the API prefix.
func New(t testing.TB, services ...handler.Service) *Env {
	t.Helper()

	db := dbtest.Open(t)
	cfg := Config()

	_, err := role.SeedDefaultRoles(db)
	require.NoError(t, err)

	tokens := auth.NewTokenService(&cfg.Auth)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(auth.Authenticate(db, tokens))

	api := app.Group(handler.APIPrefix)
	for _, s := range services {
		require.NoError(t, s.Init(api, cfg, db))
	}

	return &Env{T: t, DB: db, Cfg: cfg, App: app, Tokens: tokens}
}

// User creates an active user holding the named role, no role when roleName is empty.
func (e *Env) User(email, roleName string) *models.User {
	e.T.Helper()

	nu := user.NewUser{Email: email, Password: Password}

	if roleName != "" {
		r, err := role.GetByName(e.DB, roleName)
		require.NoError(e.T, err)
		nu.RoleID = &r.ID
	}

	u, err := user.Create(e.DB, nu)
	require.NoError(e.T, err)

	return u
}

// Token returns an access token for u.
func (e *Env) Token(u *models.User) string {
	e.T.Helper()

	access, _, err := e.Tokens.IssuePair(u)
	require.NoError(e.T, err)

	return access
}

// Response is a finished request.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the body into out.
func (r Response) Decode(t testing.TB, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, out), "body: %s", r.Body)
}

// Map decodes an object body.
func (r Response) Map(t testing.TB) map[string]any {
	t.Helper()

	var m map[string]any
	r.Decode(t, &m)

	return m
}

// List decodes an array body.
func (r Response) List(t testing.TB) []map[string]any {
	t.Helper()

	var l []map[string]any
	r.Decode(t, &l)

	return l
}

// Do sends a request below the API prefix. body, when not nil, is sent as JSON;
// token, when not empty, as bearer token.
func (e *Env) Do(method, path, token string, body any) Response {
	e.T.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.T, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, handler.APIPrefix+path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(e.T, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.T, err)

	return Response{Status: resp.StatusCode, Body: raw}
}

// StatusOf is a shorthand for the status of a request.
func (e *Env) StatusOf(method, path, token string, body any) int {
	e.T.Helper()

	return e.Do(method, path, token, body).Status
}

// Role creates an extra role.
func (e *Env) Role(name string, perms models.Permission) *models.Role {
	e.T.Helper()

	r, err := role.Create(e.DB, name, perms)
	require.NoError(e.T, err)

	return r
}
