package store_test

import (
	"context"
	"sync/atomic"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/models"
)

// fakeAPI — ручная заглушка api.Client для тестов хранилищ.
// Реализованы только методы, которые вызывают хранилища; вызов
// ненастроенного метода через встроенный nil-интерфейс паникует,
// явно указывая на дыру в тесте.
type fakeAPI struct {
	api.Client

	listVaultsFn  func(ctx context.Context) ([]models.Vault, error)
	createVaultFn func(ctx context.Context, params models.CreateVaultParams) (*models.Vault, error)
	updateVaultFn func(ctx context.Context, id int64, params models.UpdateVaultParams) (*models.Vault, error)
	deleteVaultFn func(ctx context.Context, id int64) error

	listFieldsFn    func(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error)
	createFieldFn   func(ctx context.Context, params models.CreateFieldParams) (*models.FieldDefinition, error)
	updateFieldFn   func(ctx context.Context, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error)
	deleteFieldFn   func(ctx context.Context, id int64) error
	reorderFieldsFn func(ctx context.Context, vaultID int64, ids []int64) error

	listEntriesFn   func(ctx context.Context, vaultID, page, limit int64) (*models.PaginatedEntries, error)
	createEntryFn   func(ctx context.Context, params models.CreateEntryParams) (*models.Entry, error)
	updateEntryFn   func(ctx context.Context, id int64, params models.UpdateEntryParams) (*models.Entry, error)
	deleteEntryFn   func(ctx context.Context, id int64) error
	searchEntriesFn func(ctx context.Context, vaultID int64, query string, page, limit int64) (*models.SearchResult, error)

	calls atomic.Int64 // Общее число обращений к бэкенду
}

func (f *fakeAPI) ListVaults(ctx context.Context) ([]models.Vault, error) {
	f.calls.Add(1)
	return f.listVaultsFn(ctx)
}

func (f *fakeAPI) CreateVault(ctx context.Context, params models.CreateVaultParams) (*models.Vault, error) {
	f.calls.Add(1)
	return f.createVaultFn(ctx, params)
}

func (f *fakeAPI) UpdateVault(ctx context.Context, id int64, params models.UpdateVaultParams) (*models.Vault, error) {
	f.calls.Add(1)
	return f.updateVaultFn(ctx, id, params)
}

func (f *fakeAPI) DeleteVault(ctx context.Context, id int64) error {
	f.calls.Add(1)
	return f.deleteVaultFn(ctx, id)
}

func (f *fakeAPI) ListFields(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error) {
	f.calls.Add(1)
	return f.listFieldsFn(ctx, vaultID)
}

func (f *fakeAPI) CreateField(ctx context.Context, params models.CreateFieldParams) (*models.FieldDefinition, error) {
	f.calls.Add(1)
	return f.createFieldFn(ctx, params)
}

func (f *fakeAPI) UpdateField(ctx context.Context, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error) {
	f.calls.Add(1)
	return f.updateFieldFn(ctx, id, params)
}

func (f *fakeAPI) DeleteField(ctx context.Context, id int64) error {
	f.calls.Add(1)
	return f.deleteFieldFn(ctx, id)
}

func (f *fakeAPI) ReorderFields(ctx context.Context, vaultID int64, ids []int64) error {
	f.calls.Add(1)
	return f.reorderFieldsFn(ctx, vaultID, ids)
}

func (f *fakeAPI) ListEntries(ctx context.Context, vaultID, page, limit int64) (*models.PaginatedEntries, error) {
	f.calls.Add(1)
	return f.listEntriesFn(ctx, vaultID, page, limit)
}

func (f *fakeAPI) CreateEntry(ctx context.Context, params models.CreateEntryParams) (*models.Entry, error) {
	f.calls.Add(1)
	return f.createEntryFn(ctx, params)
}

func (f *fakeAPI) UpdateEntry(ctx context.Context, id int64, params models.UpdateEntryParams) (*models.Entry, error) {
	f.calls.Add(1)
	return f.updateEntryFn(ctx, id, params)
}

func (f *fakeAPI) DeleteEntry(ctx context.Context, id int64) error {
	f.calls.Add(1)
	return f.deleteEntryFn(ctx, id)
}

func (f *fakeAPI) SearchEntries(ctx context.Context, vaultID int64, query string, page, limit int64) (*models.SearchResult, error) {
	f.calls.Add(1)
	return f.searchEntriesFn(ctx, vaultID, query, page, limit)
}

func (f *fakeAPI) callCount() int64 {
	return f.calls.Load()
}
