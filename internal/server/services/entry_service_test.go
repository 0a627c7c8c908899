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

func TestEntryService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	t.Run("Пустой заголовок", func(t *testing.T) {
		_, err := env.entries.Create(ctx, env.userID, models.CreateEntryParams{
			VaultID: vault.ID,
			Title:   "  ",
		})
		requireValidation(t, err, "Title is required")
	})

	t.Run("Обязательное поле без значения", func(t *testing.T) {
		required, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      "Жанр",
			FieldType: models.FieldTypeText,
			Required:  true,
		})
		require.NoError(t, err)

		_, err = env.entries.Create(ctx, env.userID, models.CreateEntryParams{
			VaultID: vault.ID,
			Title:   "Gloomhaven",
		})
		requireValidation(t, err, "Field 'Жанр' is required")

		// Явный null тоже не закрывает обязательность.
		nullMeta := fmt.Sprintf(`{"%d": null}`, required.ID)
		_, err = env.entries.Create(ctx, env.userID, models.CreateEntryParams{
			VaultID:  vault.ID,
			Title:    "Gloomhaven",
			Metadata: &nullMeta,
		})
		requireValidation(t, err, "Field 'Жанр' is required")
	})
}

func TestEntryService_Create_MetadataTypes(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	minVal, maxVal := 0.0, 10.0
	rating, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Оценка",
		FieldType: models.FieldTypeNumber,
		Options:   &models.FieldOptions{Min: &minVal, Max: &maxVal},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		metadata string
		wantErr  string
	}{
		{
			name:     "Значение в границах",
			metadata: fmt.Sprintf(`{"%d": 7.5}`, rating.ID),
		},
		{
			name:     "Выше максимума",
			metadata: fmt.Sprintf(`{"%d": 11}`, rating.ID),
			wantErr:  "Field 'Оценка': value 11 exceeds maximum 10",
		},
		{
			name:     "Ниже минимума",
			metadata: fmt.Sprintf(`{"%d": -1}`, rating.ID),
			wantErr:  "Field 'Оценка': value -1 is below minimum 0",
		},
		{
			name:     "Не число",
			metadata: fmt.Sprintf(`{"%d": "семь"}`, rating.ID),
			wantErr:  "Field 'Оценка': expected number value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.entries.Create(ctx, env.userID, models.CreateEntryParams{
				VaultID:  vault.ID,
				Title:    "Запись",
				Metadata: &tt.metadata,
			})
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			requireValidation(t, err, tt.wantErr)
		})
	}
}

func TestEntryService_Create_OrphanKeysDoNotBlock(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	// Ключ несуществующего поля не мешает сохранению.
	metadata := `{"9999": "призрак"}`
	entry, err := env.entries.Create(ctx, env.userID, models.CreateEntryParams{
		VaultID:  vault.ID,
		Title:    "Gloomhaven",
		Metadata: &metadata,
	})
	require.NoError(t, err)
	require.NotNil(t, entry.Metadata)
	assert.JSONEq(t, metadata, *entry.Metadata)
}

func TestEntryService_Update_CleansOrphans(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	genre, err := env.fields.Create(ctx, env.userID, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Жанр",
		FieldType: models.FieldTypeText,
	})
	require.NoError(t, err)
	entry := env.newEntry(t, vault.ID, "Gloomhaven")

	// Метаданные содержат живое поле и осиротевший ключ.
	metadata := fmt.Sprintf(`{"%d": "стратегия", "12345": "призрак"}`, genre.ID)
	updated, err := env.entries.Update(ctx, env.userID, entry.ID, models.UpdateEntryParams{
		Metadata: models.Some(metadata),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Metadata)
	assert.JSONEq(t, fmt.Sprintf(`{"%d": "стратегия"}`, genre.ID), *updated.Metadata)
}

func TestEntryService_List_HasMore(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		env.newEntry(t, vault.ID, fmt.Sprintf("Запись %d", i))
	}

	tests := []struct {
		name    string
		page    int64
		limit   int64
		wantLen int
		hasMore bool
	}{
		{"Первая страница", 0, 2, 2, true},
		{"Середина", 1, 2, 2, true},
		{"Последняя страница", 2, 2, 1, false},
		{"Все на одной странице", 0, 5, 5, false},
		{"За пределами данных", 5, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.entries.List(ctx, env.userID, vault.ID, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Len(t, result.Entries, tt.wantLen)
			assert.EqualValues(t, 5, result.Total)
			assert.Equal(t, tt.hasMore, result.HasMore)
		})
	}
}

func TestEntryService_Search(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Книги")
	ctx := context.Background()

	env.newEntry(t, vault.ID, "Dune")
	env.newEntry(t, vault.ID, "Dune Messiah")
	env.newEntry(t, vault.ID, "Hyperion")

	t.Run("Префикс каждого слова", func(t *testing.T) {
		result, err := env.entries.Search(ctx, env.userID, vault.ID, "dun mes", 0, 10)
		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "Dune Messiah", result.Entries[0].Title)
		assert.Equal(t, "dun mes", result.Query)
	})

	t.Run("Пустой запрос не трогает индекс", func(t *testing.T) {
		result, err := env.entries.Search(ctx, env.userID, vault.ID, "   ", 0, 10)
		require.NoError(t, err)
		assert.Empty(t, result.Entries)
		assert.Zero(t, result.Total)
		assert.Empty(t, result.Query)
	})

	t.Run("Кавычки в запросе не ломают синтаксис FTS", func(t *testing.T) {
		result, err := env.entries.Search(ctx, env.userID, vault.ID, `"dune`, 0, 10)
		require.NoError(t, err)
		assert.Len(t, result.Entries, 2)
	})
}

func TestBuildFTSQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"test", `"test"*`},
		{"dune herbert", `"dune"* "herbert"*`},
		{`say "hi"`, `"say"* """hi"""*`},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, services.BuildFTSQuery(tt.query), "запрос %q", tt.query)
	}
}

func TestEntryService_Delete_RemovesCoverFile(t *testing.T) {
	env := newTestEnv(t)
	vault := env.newVault(t, "Игры")
	entry := env.newEntry(t, vault.ID, "Gloomhaven")
	ctx := context.Background()

	updated, err := env.images.SetCoverFromUpload(ctx, env.userID, entry.ID, pngReader(t, 10, 10))
	require.NoError(t, err)
	require.NotNil(t, updated.CoverImagePath)

	require.NoError(t, env.entries.Delete(ctx, env.userID, entry.ID))

	_, err = env.entries.Get(ctx, env.userID, entry.ID)
	appErr, ok := services.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, services.CodeEntryNotFound, appErr.Code)
}
