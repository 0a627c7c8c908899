package services_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/internal/server/services"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) services.AuthService {
	t.Helper()
	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return services.NewAuthService(repository.NewUserRepository(db), testJWTSecret)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, auth.Register(ctx, "alice", "password123"))

	t.Run("Имя пользователя занято", func(t *testing.T) {
		err := auth.Register(ctx, "alice", "another")
		require.ErrorIs(t, err, services.ErrUsernameTaken)
	})

	t.Run("Успешный вход возвращает валидный токен", func(t *testing.T) {
		token, err := auth.Login(ctx, "alice", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims := &services.JWTClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.EqualValues(t, 1, claims.UserID)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		_, err := auth.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("Несуществующий пользователь", func(t *testing.T) {
		_, err := auth.Login(ctx, "nobody", "password123")
		require.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}
