package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/db/dbtest"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

func countRoles(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.Role{}).Count(&n).Error)

	return n
}

func TestSeedDefaultRoles(t *testing.T) {
	db := dbtest.Open(t)

	first, err := SeedDefaultRoles(db)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := SeedDefaultRoles(db)
	require.NoError(t, err)

	assert.Equal(t, int64(3), countRoles(t, db))

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	admin, err := GetByName(db, models.RoleAdministrator)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionAll(), admin.Permissions)
}

func TestSeedDefaultRolesResetsMask(t *testing.T) {
	db := dbtest.Open(t)

	_, err := Create(db, models.RoleModerator, models.PermissionFollow)
	require.NoError(t, err)

	_, err = SeedDefaultRoles(db)
	require.NoError(t, err)

	mod, err := GetByName(db, models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t,
		models.PermissionFollow|models.PermissionComment|models.PermissionWrite|models.PermissionModerate,
		mod.Permissions)
	assert.Equal(t, int64(3), countRoles(t, db))
}

func TestNilDB(t *testing.T) {
	_, err := SeedDefaultRoles(nil)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = List(nil)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Get(nil, 1)
	require.ErrorIs(t, err, ErrDBNil)

	require.ErrorIs(t, Delete(nil, 1), ErrDBNil)
}

func TestCreateAndGet(t *testing.T) {
	db := dbtest.Open(t)

	testCases := []struct {
		name          string
		roleName      string
		expectedError error
	}{
		{name: "empty name", roleName: "", expectedError: ErrRoleNameEmpty},
		{name: "created", roleName: "Editor"},
		{name: "duplicate", roleName: "Editor", expectedError: ErrRoleAlreadyExists},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Create(db, tc.roleName, models.PermissionWrite)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.ErrorIs(t, err, apierr.ErrValidation)
				assert.Nil(t, r)
				return
			}

			require.NoError(t, err)

			got, err := Get(db, r.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.roleName, got.Name)
			assert.True(t, got.HasPermission(models.PermissionWrite))
		})
	}

	_, err := Get(db, 999)
	require.ErrorIs(t, err, ErrRoleNotFound)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)

	_, err := SeedDefaultRoles(db)
	require.NoError(t, err)

	roles, err := List(db)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, models.RoleUser, roles[0].Name)
	assert.Equal(t, models.RoleAdministrator, roles[2].Name)
}

func TestMutate(t *testing.T) {
	db := dbtest.Open(t)

	r, err := Create(db, "Editor", models.PermissionFollow)
	require.NoError(t, err)

	testCases := []struct {
		name          string
		action        string
		perm          models.Permission
		expected      models.Permission
		expectedError error
	}{
		{name: "add", action: ActionAdd, perm: models.PermissionWrite, expected: models.PermissionFollow | models.PermissionWrite},
		{name: "add again", action: ActionAdd, perm: models.PermissionWrite, expected: models.PermissionFollow | models.PermissionWrite},
		{name: "remove", action: ActionRemove, perm: models.PermissionFollow, expected: models.PermissionWrite},
		{name: "remove unset", action: ActionRemove, perm: models.PermissionAdmin, expected: models.PermissionWrite},
		{name: "reset", action: ActionReset, expected: models.PermissionNone},
		{name: "unknown", action: "toggle", perm: models.PermissionWrite, expectedError: ErrUnknownAction},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Mutate(db, r.ID, tc.action, tc.perm)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Permissions)

			stored, err := Get(db, r.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, stored.Permissions)
		})
	}

	_, err = Mutate(db, 999, ActionAdd, models.PermissionWrite)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDeleteNullsUsers(t *testing.T) {
	db := dbtest.Open(t)

	r, err := Create(db, "Temp", models.PermissionComment)
	require.NoError(t, err)

	u := models.User{Email: "a@example.com", Password: "x", Active: true, RoleID: &r.ID}
	require.NoError(t, db.Create(&u).Error)

	require.NoError(t, Delete(db, r.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, u.ID).Error)
	assert.Nil(t, reloaded.RoleID)

	require.ErrorIs(t, Delete(db, r.ID), ErrRoleNotFound)
}

func TestDeleteByName(t *testing.T) {
	db := dbtest.Open(t)

	_, err := SeedDefaultRoles(db)
	require.NoError(t, err)

	require.NoError(t, DeleteByName(db, models.RoleUser))
	assert.Equal(t, int64(2), countRoles(t, db))

	require.ErrorIs(t, DeleteByName(db, models.RoleUser), ErrRoleNotFound)
}
