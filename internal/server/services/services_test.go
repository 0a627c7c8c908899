package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/internal/server/storage"
	"github.com/huy1235588/Vaultrs/models"
)

// testEnv — собранный стек сервисов поверх БД в памяти и дискового
// хранилища во временном каталоге.
type testEnv struct {
	db     *sqlx.DB
	userID int64

	vaults    services.VaultService
	fields    services.FieldService
	entries   services.EntryService
	images    services.ImageService
	relations services.RelationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	files, err := storage.NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	vaultRepo := repository.NewVaultRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	entryRepo := repository.NewEntryRepository(db)

	userID, err := userRepo.CreateUser(context.Background(), &models.User{
		Username:     "tester",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	images := services.NewImageService(entryRepo, vaultRepo, files)
	return &testEnv{
		db:        db,
		userID:    userID,
		vaults:    services.NewVaultService(vaultRepo),
		fields:    services.NewFieldService(fieldRepo, vaultRepo),
		entries:   services.NewEntryService(entryRepo, fieldRepo, vaultRepo, images),
		images:    images,
		relations: services.NewRelationService(entryRepo, vaultRepo),
	}
}

// newVault создает коллекцию от имени тестового пользователя.
func (e *testEnv) newVault(t *testing.T, name string) *models.Vault {
	t.Helper()
	vault, err := e.vaults.Create(context.Background(), e.userID, models.CreateVaultParams{Name: name})
	require.NoError(t, err)
	return vault
}

// newEntry создает запись без метаданных.
func (e *testEnv) newEntry(t *testing.T, vaultID int64, title string) *models.Entry {
	t.Helper()
	entry, err := e.entries.Create(context.Background(), e.userID, models.CreateEntryParams{
		VaultID: vaultID,
		Title:   title,
	})
	require.NoError(t, err)
	return entry
}

// requireValidation проверяет, что ошибка — VALIDATION_ERROR с
// ожидаемым текстом после префикса.
func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := services.AsAppError(err)
	require.True(t, ok, "ожидалась AppError, получено: %v", err)
	require.Equal(t, services.CodeValidation, appErr.Code)
	require.Equal(t, "Validation error: "+message, appErr.Message)
}
