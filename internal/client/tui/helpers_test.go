//nolint:testpackage // Тесты в том же пакете для доступа к приватным компонентам
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/models"
)

// fakeClient — ручная заглушка api.Client для тестов экранов.
// Вызов ненастроенного метода через встроенный nil-интерфейс паникует,
// явно указывая на дыру в тесте.
type fakeClient struct {
	api.Client

	authToken string

	loginFn    func(ctx context.Context, username, password string) (string, error)
	registerFn func(ctx context.Context, username, password string) error

	resolveRelationsFn func(ctx context.Context, refs []models.RelationValue) (map[string]models.ResolvedRelation, error)
	pickerSearchFn     func(ctx context.Context, vaultID int64, query string, limit int64) ([]models.EntryPickerItem, error)

	listFieldsFn    func(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error)
	listEntriesFn   func(ctx context.Context, vaultID, page, limit int64) (*models.PaginatedEntries, error)
	searchEntriesFn func(ctx context.Context, vaultID int64, query string, page, limit int64) (*models.SearchResult, error)
	listVaultsFn    func(ctx context.Context) ([]models.Vault, error)
}

func (f *fakeClient) ListVaults(ctx context.Context) ([]models.Vault, error) {
	return f.listVaultsFn(ctx)
}

func (f *fakeClient) SearchEntries(ctx context.Context, vaultID int64, query string, page, limit int64) (*models.SearchResult, error) {
	return f.searchEntriesFn(ctx, vaultID, query, page, limit)
}

func (f *fakeClient) ListFields(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error) {
	return f.listFieldsFn(ctx, vaultID)
}

func (f *fakeClient) ListEntries(ctx context.Context, vaultID, page, limit int64) (*models.PaginatedEntries, error) {
	return f.listEntriesFn(ctx, vaultID, page, limit)
}

func (f *fakeClient) SetAuthToken(token string) {
	f.authToken = token
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	return f.loginFn(ctx, username, password)
}

func (f *fakeClient) Register(ctx context.Context, username, password string) error {
	return f.registerFn(ctx, username, password)
}

func (f *fakeClient) ResolveRelations(ctx context.Context, refs []models.RelationValue) (map[string]models.ResolvedRelation, error) {
	return f.resolveRelationsFn(ctx, refs)
}

func (f *fakeClient) SearchEntriesForRelation(ctx context.Context, vaultID int64, query string, limit int64) ([]models.EntryPickerItem, error) {
	return f.pickerSearchFn(ctx, vaultID, query, limit)
}

// newTestModel создает модель с заглушкой клиента и перехватом send.
func newTestModel(client *fakeClient) (*model, *[]tea.Msg) {
	if client == nil {
		client = &fakeClient{}
	}
	m := initModel("http://test", false, client)
	var sent []tea.Msg
	m.send = func(msg tea.Msg) {
		sent = append(sent, msg)
	}
	return &m, &sent
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }
