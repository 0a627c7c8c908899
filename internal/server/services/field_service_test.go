package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/models"
)

func TestFieldService_Create(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	t.Run("Успех", func(t *testing.T) {
		field, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      "Жанр",
			FieldType: models.FieldTypeText,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, field.Position)
	})

	t.Run("Пустое имя", func(t *testing.T) {
		_, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      " ",
			FieldType: models.FieldTypeText,
		})
		requireValidation(t, err, "Field name is required")
	})

	t.Run("Неизвестный тип", func(t *testing.T) {
		_, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      "Что-то",
			FieldType: "rating",
		})
		requireValidation(t, err, "Unknown field type 'rating'")
	})

	t.Run("Select без вариантов", func(t *testing.T) {
		_, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      "Состояние",
			FieldType: models.FieldTypeSelect,
		})
		requireValidation(t, err, "Select field requires at least one choice")
	})

	t.Run("Дубликат имени в коллекции", func(t *testing.T) {
		_, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      "Жанр",
			FieldType: models.FieldTypeNumber,
		})
		requireValidation(t, err, "Field 'Жанр' already exists in this vault")
	})

	t.Run("Чужая коллекция", func(t *testing.T) {
		_, err := env.fields.Create(ctx, env.userID+1, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      "Цена",
			FieldType: models.FieldTypeNumber,
		})
		appErr, ok := services.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, services.CodeVaultNotFound, appErr.Code)
	})
}

func TestFieldService_Update_RenameToExisting(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	_, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
		VaultID: vault.ID, Name: "Жанр", FieldType: models.FieldTypeText,
	})
	require.NoError(t, err)
	year, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
		VaultID: vault.ID, Name: "Год", FieldType: models.FieldTypeNumber,
	})
	require.NoError(t, err)

	_, err = env.fields.Update(ctx, env.userID, year.ID, models.UpdateFieldParams{
		Name: models.Some("Жанр"),
	})
	requireValidation(t, err, "Field 'Жанр' already exists in this vault")

	// Переименование в собственное имя не считается дубликатом.
	updated, err := env.fields.Update(ctx, env.userID, year.ID, models.UpdateFieldParams{
		Name: models.Some("Год"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Год", updated.Name)
}

func TestFieldService_Reorder(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"А", "Б", "В"} {
		f, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
			VaultID: vault.ID, Name: name, FieldType: models.FieldTypeText,
		})
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}

	t.Run("Чужой id отклоняется до записи", func(t *testing.T) {
		err := env.fields.Reorder(ctx, env.userID, vault.ID, []int64{ids[0], 9999})
		requireValidation(t, err, fmt.Sprintf("Field 9999 does not belong to vault %d", vault.ID))

		// Порядок не изменился.
		fields, err := env.fields.List(ctx, env.userID, vault.ID)
		require.NoError(t, err)
		assert.Equal(t, ids[0], fields[0].ID)
	})

	t.Run("Успешное переупорядочивание", func(t *testing.T) {
		require.NoError(t, env.fields.Reorder(ctx, env.userID, vault.ID, []int64{ids[2], ids[1], ids[0]}))

		fields, err := env.fields.List(ctx, env.userID, vault.ID)
		require.NoError(t, err)
		require.Len(t, fields, 3)
		assert.Equal(t, ids[2], fields[0].ID)
		assert.Equal(t, ids[0], fields[2].ID)
	})
}
