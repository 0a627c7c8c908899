package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/internal/server/handlers"
	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/internal/server/storage"
	"github.com/huy1235588/Vaultrs/models"
)

const testJWTSecret = "router-test-secret"

// newTestServer поднимает полный сервер поверх БД в памяти и дискового
// хранилища во временном каталоге.
func newTestServer(t *testing.T) *httptest.Server {
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

	imageService := services.NewImageService(entryRepo, vaultRepo, files)
	h := handlers.Handlers{
		Auth:     handlers.NewAuthHandler(services.NewAuthService(userRepo, testJWTSecret)),
		Vault:    handlers.NewVaultHandler(services.NewVaultService(vaultRepo)),
		Field:    handlers.NewFieldHandler(services.NewFieldService(fieldRepo, vaultRepo)),
		Entry:    handlers.NewEntryHandler(services.NewEntryService(entryRepo, fieldRepo, vaultRepo, imageService)),
		Image:    handlers.NewImageHandler(imageService),
		Relation: handlers.NewRelationHandler(services.NewRelationService(entryRepo, vaultRepo)),
	}

	srv := httptest.NewServer(handlers.NewRouter(h, testJWTSecret))
	t.Cleanup(srv.Close)
	return srv
}

// newAuthedClient регистрирует пользователя и возвращает клиент API с
// установленным токеном.
func newAuthedClient(t *testing.T, srv *httptest.Server, username string) api.Client {
	t.Helper()
	ctx := context.Background()

	client := api.NewHTTPClient(srv.URL)
	require.NoError(t, client.Register(ctx, username, "password123"))

	token, err := client.Login(ctx, username, "password123")
	require.NoError(t, err)
	client.SetAuthToken(token)
	return client
}

func TestRouter_AuthFlow(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	client := api.NewHTTPClient(srv.URL)

	require.NoError(t, client.Register(ctx, "alice", "password123"))

	t.Run("Вход с неверным паролем", func(t *testing.T) {
		_, err := client.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, api.ErrAuthorization)
	})

	t.Run("Запрос без токена", func(t *testing.T) {
		_, err := client.ListVaults(ctx)
		require.ErrorIs(t, err, api.ErrAuthorization)
	})

	t.Run("Полный цикл входа", func(t *testing.T) {
		token, err := client.Login(ctx, "alice", "password123")
		require.NoError(t, err)
		client.SetAuthToken(token)

		vaults, err := client.ListVaults(ctx)
		require.NoError(t, err)
		assert.Empty(t, vaults)
	})
}

func TestRouter_VaultLifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := newAuthedClient(t, srv, "alice")
	ctx := context.Background()

	desc := "Настольные игры"
	vault, err := client.CreateVault(ctx, models.CreateVaultParams{
		Name:        "Игры",
		Description: &desc,
	})
	require.NoError(t, err)

	t.Run("Патч с явным null очищает описание", func(t *testing.T) {
		updated, err := client.UpdateVault(ctx, vault.ID, models.UpdateVaultParams{
			Description: models.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
		assert.Equal(t, "Игры", updated.Name)
	})

	t.Run("Ошибка приходит с кодом", func(t *testing.T) {
		_, err := client.GetVault(ctx, 9999)
		assert.True(t, api.IsCode(err, "VAULT_NOT_FOUND"), "получено: %v", err)
	})

	t.Run("Удаление", func(t *testing.T) {
		require.NoError(t, client.DeleteVault(ctx, vault.ID))
		_, err := client.GetVault(ctx, vault.ID)
		assert.True(t, api.IsCode(err, "VAULT_NOT_FOUND"))
	})
}

func TestRouter_UserIsolation(t *testing.T) {
	srv := newTestServer(t)
	alice := newAuthedClient(t, srv, "alice")
	bob := newAuthedClient(t, srv, "bob")
	ctx := context.Background()

	vault, err := alice.CreateVault(ctx, models.CreateVaultParams{Name: "Личное"})
	require.NoError(t, err)
	field, err := alice.CreateField(ctx, models.CreateFieldParams{
		VaultID:   vault.ID,
		Name:      "Заметка",
		FieldType: models.FieldTypeText,
	})
	require.NoError(t, err)
	entry, err := alice.CreateEntry(ctx, models.CreateEntryParams{VaultID: vault.ID, Title: "Секрет"})
	require.NoError(t, err)

	t.Run("Чужая коллекция", func(t *testing.T) {
		// Недоступна и не отличается от несуществующей.
		_, err := bob.GetVault(ctx, vault.ID)
		assert.True(t, api.IsCode(err, "VAULT_NOT_FOUND"))

		vaults, err := bob.ListVaults(ctx)
		require.NoError(t, err)
		assert.Empty(t, vaults)
	})

	t.Run("Чужая запись", func(t *testing.T) {
		_, err := bob.GetEntry(ctx, entry.ID)
		assert.True(t, api.IsCode(err, "ENTRY_NOT_FOUND"), "получено: %v", err)

		_, err = bob.UpdateEntry(ctx, entry.ID, models.UpdateEntryParams{
			Title: models.Some("Взломано"),
		})
		assert.True(t, api.IsCode(err, "ENTRY_NOT_FOUND"))

		err = bob.DeleteEntry(ctx, entry.ID)
		assert.True(t, api.IsCode(err, "ENTRY_NOT_FOUND"))

		// Запись осталась нетронутой.
		got, err := alice.GetEntry(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Секрет", got.Title)
	})

	t.Run("Чужое поле", func(t *testing.T) {
		_, err := bob.GetField(ctx, field.ID)
		assert.True(t, api.IsCode(err, "FIELD_NOT_FOUND"), "получено: %v", err)

		_, err = bob.UpdateField(ctx, field.ID, models.UpdateFieldParams{
			Name: models.Some("Чужое имя"),
		})
		assert.True(t, api.IsCode(err, "FIELD_NOT_FOUND"))

		err = bob.DeleteField(ctx, field.ID)
		assert.True(t, api.IsCode(err, "FIELD_NOT_FOUND"))

		fields, err := alice.ListFields(ctx, vault.ID)
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "Заметка", fields[0].Name)
	})

	t.Run("Чужая обложка", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))

		_, err := bob.UploadCoverImage(ctx, entry.ID, "cover.png", &buf)
		assert.True(t, api.IsCode(err, "ENTRY_NOT_FOUND"), "получено: %v", err)

		_, err = bob.SetCoverURL(ctx, entry.ID, "https://example.com/cover.jpg")
		assert.True(t, api.IsCode(err, "ENTRY_NOT_FOUND"))

		_, err = bob.GetThumbnail(ctx, entry.ID)
		assert.True(t, api.IsCode(err, "ENTRY_NOT_FOUND"))

		_, err = bob.RemoveCover(ctx, entry.ID)
		assert.True(t, api.IsCode(err, "ENTRY_NOT_FOUND"))

		got, err := alice.GetEntry(ctx, entry.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CoverImagePath)
	})
}

func TestRouter_EntriesAndSearch(t *testing.T) {
	srv := newTestServer(t)
	client := newAuthedClient(t, srv, "alice")
	ctx := context.Background()

	vault, err := client.CreateVault(ctx, models.CreateVaultParams{Name: "Книги"})
	require.NoError(t, err)

	for _, title := range []string{"Dune", "Dune Messiah", "Hyperion"} {
		_, err := client.CreateEntry(ctx, models.CreateEntryParams{VaultID: vault.ID, Title: title})
		require.NoError(t, err)
	}

	t.Run("Пагинация", func(t *testing.T) {
		page, err := client.ListEntries(ctx, vault.ID, 0, 2)
		require.NoError(t, err)
		assert.Len(t, page.Entries, 2)
		assert.EqualValues(t, 3, page.Total)
		assert.True(t, page.HasMore)
	})

	t.Run("Поиск", func(t *testing.T) {
		result, err := client.SearchEntries(ctx, vault.ID, "dun", 0, 10)
		require.NoError(t, err)
		assert.Len(t, result.Entries, 2)
		assert.False(t, result.HasMore)
	})

	t.Run("Поиск с маленькой страницей", func(t *testing.T) {
		result, err := client.SearchEntries(ctx, vault.ID, "dun", 0, 1)
		require.NoError(t, err)
		assert.Len(t, result.Entries, 1)
		assert.EqualValues(t, 2, result.Total)
		assert.True(t, result.HasMore)
	})

	t.Run("Валидация метаданных на сервере", func(t *testing.T) {
		_, err := client.CreateField(ctx, models.CreateFieldParams{
			VaultID:   vault.ID,
			Name:      "Год",
			FieldType: models.FieldTypeNumber,
			Required:  true,
		})
		require.NoError(t, err)

		_, err = client.CreateEntry(ctx, models.CreateEntryParams{VaultID: vault.ID, Title: "Endymion"})
		assert.True(t, api.IsCode(err, "VALIDATION_ERROR"), "получено: %v", err)
	})
}

func TestRouter_CoverImage(t *testing.T) {
	srv := newTestServer(t)
	client := newAuthedClient(t, srv, "alice")
	ctx := context.Background()

	vault, err := client.CreateVault(ctx, models.CreateVaultParams{Name: "Игры"})
	require.NoError(t, err)
	entry, err := client.CreateEntry(ctx, models.CreateEntryParams{VaultID: vault.ID, Title: "Gloomhaven"})
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	updated, err := client.UploadCoverImage(ctx, entry.ID, "cover.png", &buf)
	require.NoError(t, err)
	require.NotNil(t, updated.CoverImagePath)
	assert.Equal(t, fmt.Sprintf("%d/%d.png", vault.ID, entry.ID), *updated.CoverImagePath)

	thumbnail, err := client.GetThumbnail(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(thumbnail, "data:image/jpeg;base64,"))

	cleared, err := client.RemoveCover(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.CoverImagePath)

	_, err = client.GetThumbnail(ctx, entry.ID)
	assert.True(t, api.IsCode(err, "VALIDATION_ERROR"), "получено: %v", err)
}

func TestRouter_RelationResolve(t *testing.T) {
	srv := newTestServer(t)
	client := newAuthedClient(t, srv, "alice")
	ctx := context.Background()

	vault, err := client.CreateVault(ctx, models.CreateVaultParams{Name: "Книги"})
	require.NoError(t, err)
	entry, err := client.CreateEntry(ctx, models.CreateEntryParams{VaultID: vault.ID, Title: "Dune"})
	require.NoError(t, err)

	refs := []models.RelationValue{
		{EntryID: entry.ID, VaultID: vault.ID},
		{EntryID: 9999, VaultID: vault.ID},
	}
	resolved, err := client.ResolveRelations(ctx, refs)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.True(t, resolved[refs[0].Key()].Exists)
	assert.Equal(t, "[Deleted]", resolved[refs[1].Key()].Title)
}
