package repository_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/models"
)

// newTestDB открывает БД в памяти с примененными миграциями.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newTestUser создает пользователя и возвращает его id.
func newTestUser(t *testing.T, db *sqlx.DB, username string) int64 {
	t.Helper()
	id, err := repository.NewUserRepository(db).CreateUser(context.Background(), &models.User{
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

// newTestVault создает коллекцию пользователя и возвращает ее.
func newTestVault(t *testing.T, db *sqlx.DB, userID int64, name string) *models.Vault {
	t.Helper()
	vault, err := repository.NewVaultRepository(db).Create(context.Background(), userID, models.CreateVaultParams{
		Name: name,
	})
	require.NoError(t, err)
	return vault
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// Повторный прогон не должен пытаться применить миграции заново.
	require.NoError(t, repository.Migrate(db))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM _migrations`))
	require.Positive(t, count)
}
