package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/dbtest"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

func ptr[T any](v T) *T {
	return &v
}

func seedRole(t *testing.T, db *gorm.DB, name string, perms models.Permission) *models.Role {
	t.Helper()

	r := &models.Role{Name: name, Permissions: perms}
	require.NoError(t, db.Create(r).Error)

	return r
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Alice@example.com", NormalizeEmail("  Alice@EXAMPLE.com "))
	assert.Equal(t, "no-at", NormalizeEmail("no-at"))
}

func TestCreate(t *testing.T) {
	db := dbtest.Open(t)
	role := seedRole(t, db, "User", models.PermissionFollow)

	testCases := []struct {
		name          string
		input         NewUser
		expectedError error
	}{
		{name: "empty email", input: NewUser{Password: "password1"}, expectedError: ErrEmailEmpty},
		{name: "bad gender", input: NewUser{Email: "g@example.com", Password: "password1", Gender: ptr(models.Gender("?"))}, expectedError: ErrInvalidGender},
		{name: "unknown role", input: NewUser{Email: "r@example.com", Password: "password1", RoleID: ptr(uint(99))}, expectedError: ErrRoleNotFound},
		{name: "created", input: NewUser{Email: "a@Example.com", Password: "password1", FirstName: "A", RoleID: &role.ID, Gender: ptr(models.GenderFemale)}},
		{name: "duplicate", input: NewUser{Email: "a@example.COM", Password: "password1"}, expectedError: ErrEmailTaken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := Create(db, tc.input)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.ErrorIs(t, err, apierr.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "a@example.com", u.Email)
			assert.True(t, u.Active)
			assert.True(t, u.VerifyPassword("password1"))
			require.NotNil(t, u.Role)
			assert.Equal(t, "User", u.Role.Name)
			assert.True(t, u.HasAppPermission(models.PermissionFollow))
		})
	}
}

func TestGet(t *testing.T) {
	db := dbtest.Open(t)

	_, err := Get(nil, 1)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Get(db, 1)
	require.ErrorIs(t, err, ErrUserNotFound)

	created, err := Create(db, NewUser{Email: "b@example.com", Password: "password1"})
	require.NoError(t, err)

	got, err := GetByEmail(db, " b@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Nil(t, got.Role)
	assert.False(t, got.HasAppPermission(models.PermissionFollow))

	_, err = GetByEmail(db, "")
	require.ErrorIs(t, err, ErrEmailEmpty)
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)
	admin := seedRole(t, db, "Administrator", models.PermissionAll())

	_, err := Create(db, NewUser{Email: "ann@example.com", Password: "p", FirstName: "Ann", RoleID: &admin.ID})
	require.NoError(t, err)
	bob, err := Create(db, NewUser{Email: "bob@example.com", Password: "p", LastName: "Builder"})
	require.NoError(t, err)
	_, err = Update(db, bob.ID, Changes{IsActive: ptr(false)})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{name: "all", expected: []string{"ann@example.com", "bob@example.com"}},
		{name: "active", filter: Filter{IsActive: ptr(true)}, expected: []string{"ann@example.com"}},
		{name: "inactive", filter: Filter{IsActive: ptr(false)}, expected: []string{"bob@example.com"}},
		{name: "role", filter: Filter{RoleID: &admin.ID}, expected: []string{"ann@example.com"}},
		{name: "search last name", filter: Filter{Search: "build"}, expected: []string{"bob@example.com"}},
		{name: "search email", filter: Filter{Search: "ANN@"}, expected: []string{"ann@example.com"}},
		{name: "no match", filter: Filter{Search: "zzz"}, expected: []string{}},
		{name: "percent is literal", filter: Filter{Search: "%"}, expected: []string{}},
		{name: "underscore is literal", filter: Filter{Search: "_"}, expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			users, err := List(db, tc.filter)
			require.NoError(t, err)

			emails := make([]string, 0, len(users))
			for _, u := range users {
				emails = append(emails, u.Email)
			}

			assert.Equal(t, tc.expected, emails)
		})
	}
}

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)
	mod := seedRole(t, db, "Moderator", models.PermissionModerate)

	u, err := Create(db, NewUser{Email: "c@example.com", Password: "p", Gender: ptr(models.GenderMale)})
	require.NoError(t, err)

	got, err := Update(db, u.ID, Changes{FirstName: ptr("Cee"), RoleID: &mod.ID, IsStaff: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Cee", got.FirstName)
	assert.True(t, got.IsStaff)
	assert.True(t, got.HasAppPermission(models.PermissionModerate))

	got, err = Update(db, u.ID, Changes{Gender: ptr(models.Gender("")), RoleID: ptr(uint(0))})
	require.NoError(t, err)
	assert.Nil(t, got.Gender)
	assert.Nil(t, got.RoleID)

	_, err = Update(db, u.ID, Changes{Gender: ptr(models.Gender("x"))})
	require.ErrorIs(t, err, ErrInvalidGender)

	_, err = Update(db, u.ID, Changes{RoleID: ptr(uint(42))})
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = Update(db, 999, Changes{})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetPasswordAndLogin(t *testing.T) {
	db := dbtest.Open(t)

	u, err := Create(db, NewUser{Email: "d@example.com", Password: "old-password"})
	require.NoError(t, err)

	require.NoError(t, SetPassword(db, u.ID, "new-password"))
	require.ErrorIs(t, SetPassword(db, 999, "x"), ErrUserNotFound)

	require.NoError(t, TouchLastLogin(db, u.ID))

	got, err := Get(db, u.ID)
	require.NoError(t, err)
	assert.True(t, got.VerifyPassword("new-password"))
	assert.False(t, got.VerifyPassword("old-password"))
	assert.NotNil(t, got.LastLogin)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)

	u, err := Create(db, NewUser{Email: "e@example.com", Password: "p"})
	require.NoError(t, err)

	a := models.Article{Title: "t", Slug: "t", Body: "b", AuthorID: u.ID}
	require.NoError(t, db.Create(&a).Error)

	require.NoError(t, Delete(db, u.ID))
	require.ErrorIs(t, Delete(db, u.ID), ErrUserNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Article{}).Count(&n).Error)
	assert.Zero(t, n)
}
