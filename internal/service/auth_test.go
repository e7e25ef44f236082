package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealshare/backend/internal/service"
	"github.com/pageza/mealshare/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	token, err := auth.Register("cook@example.com", "cook", "First", "Last", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)

	user, err := auth.GetUser(claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loginToken, err := auth.Login("cook@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)

	_, err = auth.Login("cook@example.com", "wrong-password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Login("nobody@example.com", "password123")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	_, err := auth.Register("cook@example.com", "cook", "First", "Last", "password123")
	require.NoError(t, err)

	_, err = auth.Register("cook@example.com", "other", "First", "Last", "password123")
	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestValidateTokenRejectsForgedToken(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	forger := service.NewAuthService(db, "other-secret")

	token, err := forger.Register("cook@example.com", "cook", "First", "Last", "password123")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	require.Error(t, err)
}

func TestSetAvatar(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	user := testhelpers.CreateUser(t, db, "cook")

	require.NoError(t, auth.SetAvatar(user.ID, "https://cdn.example.com/a.png"))
	got, err := auth.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", got.AvatarURL)

	require.NoError(t, auth.SetAvatar(user.ID, ""))
	got, err = auth.GetUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AvatarURL)
}
