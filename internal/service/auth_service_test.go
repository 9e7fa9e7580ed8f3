package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/repository"
	"fibu_trainer_backend/internal/util"
)

func newTestAuthService(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-sec"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repo, cfg), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register("Lena", "lena@example.com", "geheim123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "geheim123", user.Password, "password must be stored hashed")

	_, err = svc.Register("Lena", "lena@example.com", "geheim123")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	t.Run("registered user with correct password", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		_, err := svc.Register("Lena", "lena@example.com", "geheim123")
		require.NoError(t, err)

		token, user, err := svc.Login("lena@example.com", "geheim123", "")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "Lena", user.Name)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		_, err := svc.Register("Lena", "lena@example.com", "geheim123")
		require.NoError(t, err)

		_, _, err = svc.Login("lena@example.com", "falsch123", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is provisioned as regular user", func(t *testing.T) {
		svc, repo := newTestAuthService(t)

		token, user, err := svc.Login("neu@example.com", "geheim123", "")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "User", user.Name)
		assert.Equal(t, model.RoleUser, user.Role)

		// The provisioned password sticks: a second login with a
		// different one fails.
		_, _, err = svc.Login("neu@example.com", "anders123", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		stored, err := repo.FindByEmail("neu@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "geheim123", stored.Password)
	})
}
