package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admission-api/internal/models"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
)

func TestUserListHidesCredentials(t *testing.T) {
	st, _ := newTestStore(t)
	addUsers(t, st, models.User{
		Email:        "guide@krmu.edu",
		PasswordHash: "$2a$10$secret",
		FullName:     "Campus Guide Team",
		Role:         models.RoleGuide,
	})
	svc := NewUserService(st, nil)

	users := svc.List(context.Background())
	require.Len(t, users, 1)
	assert.Equal(t, "guide@krmu.edu", users[0].Email)
	assert.Equal(t, models.RoleGuide, users[0].Role)
}

func TestUpgradeToAdmin(t *testing.T) {
	st, _ := newTestStore(t)
	addUsers(t, st, models.User{Email: "guide@krmu.edu", Role: models.RoleGuide})
	svc := NewUserService(st, nil)

	info, err := svc.UpgradeToAdmin(context.Background(), "Guide@KRMU.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, info.Role)

	// Upgrading an admin again is a no-op, not an error.
	info, err = svc.UpgradeToAdmin(context.Background(), "guide@krmu.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, info.Role)
}

func TestUpgradeUnknownAccount(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewUserService(st, nil)

	_, err := svc.UpgradeToAdmin(context.Background(), "nobody@krmu.edu")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCanAccess(t *testing.T) {
	svc := NewUserService(nil, nil)

	assert.True(t, svc.CanAccess(models.RoleAdmin, models.RoleCounsellor))
	assert.True(t, svc.CanAccess(models.RoleAdmin, models.RoleGuide))
	assert.True(t, svc.CanAccess(models.RoleCounsellor, models.RoleCounsellor))
	assert.False(t, svc.CanAccess(models.RoleCounsellor, models.RoleAdmin))
	assert.False(t, svc.CanAccess(models.RoleGuide, models.RoleCounsellor))
	assert.False(t, svc.CanAccess(models.RoleParent, models.RoleAdmin))
}
