package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/client/store"
	"github.com/huy1235588/Vaultrs/models"
)

func TestVaultStore_CreateVault(t *testing.T) {
	t.Run("Новая коллекция всегда первая в списке и активная", func(t *testing.T) {
		nextID := int64(0)
		fake := &fakeAPI{
			createVaultFn: func(_ context.Context, params models.CreateVaultParams) (*models.Vault, error) {
				nextID++
				return &models.Vault{ID: nextID, Name: params.Name}, nil
			},
		}
		s := store.NewVaultStore(fake)

		for _, name := range []string{"Books", "Games", "Vinyl"} {
			_, err := s.CreateVault(context.Background(), models.CreateVaultParams{Name: name})
			require.NoError(t, err)

			vaults := s.Vaults()
			require.NotEmpty(t, vaults)
			assert.Equal(t, name, vaults[0].Name)

			activeID, ok := s.ActiveVaultID()
			require.True(t, ok)
			assert.Equal(t, vaults[0].ID, activeID)
		}
	})

	t.Run("Ошибка бэкенда записывается и возвращается", func(t *testing.T) {
		backendErr := errors.New("database error")
		fake := &fakeAPI{
			createVaultFn: func(_ context.Context, _ models.CreateVaultParams) (*models.Vault, error) {
				return nil, backendErr
			},
		}
		s := store.NewVaultStore(fake)

		_, err := s.CreateVault(context.Background(), models.CreateVaultParams{Name: "Books"})
		assert.ErrorIs(t, err, backendErr)
		assert.ErrorIs(t, s.Err(), backendErr)
		assert.Empty(t, s.Vaults())
	})
}

func TestVaultStore_DeleteVault(t *testing.T) {
	newStore := func(t *testing.T) *store.VaultStore {
		t.Helper()
		fake := &fakeAPI{
			listVaultsFn: func(_ context.Context) ([]models.Vault, error) {
				return []models.Vault{{ID: 3, Name: "Vinyl"}, {ID: 2, Name: "Games"}, {ID: 1, Name: "Books"}}, nil
			},
			deleteVaultFn: func(_ context.Context, _ int64) error { return nil },
		}
		s := store.NewVaultStore(fake)
		require.NoError(t, s.FetchVaults(context.Background()))
		return s
	}

	t.Run("Удаление активной переводит выбор на первую оставшуюся", func(t *testing.T) {
		s := newStore(t)
		s.SetActiveVault(3)

		require.NoError(t, s.DeleteVault(context.Background(), 3))

		activeID, ok := s.ActiveVaultID()
		require.True(t, ok)
		assert.Equal(t, int64(2), activeID)
		assert.Len(t, s.Vaults(), 2)
	})

	t.Run("Удаление неактивной не трогает выбор", func(t *testing.T) {
		s := newStore(t)
		s.SetActiveVault(2)

		require.NoError(t, s.DeleteVault(context.Background(), 3))

		activeID, ok := s.ActiveVaultID()
		require.True(t, ok)
		assert.Equal(t, int64(2), activeID)
	})

	t.Run("Удаление последней оставляет выбор пустым", func(t *testing.T) {
		s := newStore(t)
		s.SetActiveVault(3)

		for _, id := range []int64{3, 2, 1} {
			require.NoError(t, s.DeleteVault(context.Background(), id))
		}

		_, ok := s.ActiveVaultID()
		assert.False(t, ok)
		assert.Empty(t, s.Vaults())
	})
}

func TestVaultStore_UpdateVault(t *testing.T) {
	t.Run("Замена по идентичности", func(t *testing.T) {
		fake := &fakeAPI{
			listVaultsFn: func(_ context.Context) ([]models.Vault, error) {
				return []models.Vault{{ID: 1, Name: "Books"}}, nil
			},
			updateVaultFn: func(_ context.Context, id int64, params models.UpdateVaultParams) (*models.Vault, error) {
				name, _ := params.Name.Get()
				return &models.Vault{ID: id, Name: name}, nil
			},
		}
		s := store.NewVaultStore(fake)
		require.NoError(t, s.FetchVaults(context.Background()))

		_, err := s.UpdateVault(context.Background(), 1, models.UpdateVaultParams{Name: models.Some("Library")})
		require.NoError(t, err)
		assert.Equal(t, "Library", s.Vaults()[0].Name)
	})

	t.Run("Неизвестный id не добавляется в список", func(t *testing.T) {
		fake := &fakeAPI{
			listVaultsFn: func(_ context.Context) ([]models.Vault, error) {
				return []models.Vault{{ID: 1, Name: "Books"}}, nil
			},
			updateVaultFn: func(_ context.Context, id int64, _ models.UpdateVaultParams) (*models.Vault, error) {
				return &models.Vault{ID: id, Name: "Ghost"}, nil
			},
		}
		s := store.NewVaultStore(fake)
		require.NoError(t, s.FetchVaults(context.Background()))

		_, err := s.UpdateVault(context.Background(), 99, models.UpdateVaultParams{})
		require.NoError(t, err)

		vaults := s.Vaults()
		require.Len(t, vaults, 1)
		assert.Equal(t, "Books", vaults[0].Name)
	})
}
