package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/models"
)

func TestFieldRepository_Create_AppendsToEnd(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")
	vault := newTestVault(t, db, userID, "Игры")
	repo := repository.NewFieldRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Жанр",
		FieldType: models.FieldTypeText,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)

	second, err := repo.Create(ctx, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Год",
		FieldType: models.FieldTypeNumber,
		Required:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
	assert.True(t, second.Required)
}

func TestFieldRepository_Options_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")
	vault := newTestVault(t, db, userID, "Игры")
	repo := repository.NewFieldRepository(db)
	ctx := context.Background()

	field, err := repo.Create(ctx, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Состояние",
		FieldType: models.FieldTypeSelect,
		Options:   &models.FieldOptions{Choices: []string{"новое", "б/у"}},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, field.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Options)
	assert.Equal(t, []string{"новое", "б/у"}, got.Options.Choices)
}

func TestFieldRepository_CountByName(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")
	vault := newTestVault(t, db, userID, "Игры")
	repo := repository.NewFieldRepository(db)
	ctx := context.Background()

	field, err := repo.Create(ctx, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Жанр",
		FieldType: models.FieldTypeText,
	})
	require.NoError(t, err)

	count, err := repo.CountByName(ctx, vault.ID, "Жанр", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Само поле исключается при проверке на переименование.
	count, err = repo.CountByName(ctx, vault.ID, "Жанр", field.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFieldRepository_Update(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")
	vault := newTestVault(t, db, userID, "Игры")
	repo := repository.NewFieldRepository(db)
	ctx := context.Background()

	field, err := repo.Create(ctx, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Жанр",
		FieldType: models.FieldTypeText,
		Options:   &models.FieldOptions{MaxLength: intPtr(50)},
	})
	require.NoError(t, err)

	t.Run("Переименование сохраняет опции", func(t *testing.T) {
		updated, err := repo.Update(ctx, field.ID, models.UpdateFieldParams{
			Name: models.Some("Категория"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Категория", updated.Name)
		require.NotNil(t, updated.Options)
		assert.Equal(t, 50, *updated.Options.MaxLength)
	})

	t.Run("Явный null очищает опции", func(t *testing.T) {
		updated, err := repo.Update(ctx, field.ID, models.UpdateFieldParams{
			Options: models.Null[models.FieldOptions](),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Options)
	})

	t.Run("Несуществующее поле", func(t *testing.T) {
		_, err := repo.Update(ctx, 9999, models.UpdateFieldParams{Name: models.Some("Нет")})
		require.ErrorIs(t, err, repository.ErrFieldNotFound)
	})
}

func TestFieldRepository_Reorder(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")
	vault := newTestVault(t, db, userID, "Игры")
	repo := repository.NewFieldRepository(db)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"А", "Б", "В"} {
		f, err := repo.Create(ctx, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      name,
			FieldType: models.FieldTypeText,
		})
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}

	// Обратный порядок: позиции становятся плотными 0..n-1.
	require.NoError(t, repo.Reorder(ctx, vault.ID, []int64{ids[2], ids[0], ids[1]}))

	fields, err := repo.ListByVault(ctx, vault.ID)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, ids[2], fields[0].ID)
	assert.Equal(t, ids[0], fields[1].ID)
	assert.Equal(t, ids[1], fields[2].ID)
	for i, f := range fields {
		assert.Equal(t, i, f.Position)
	}
}

func intPtr(v int) *int { return &v }
