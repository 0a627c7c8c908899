package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/huy1235588/Vaultrs/models"
)

// SearchEntriesForRelation ищет записи-кандидаты для значения relation-поля.
func (c *httpClient) SearchEntriesForRelation(ctx context.Context, vaultID int64, searchQuery string, limit int64) ([]models.EntryPickerItem, error) {
	query := url.Values{}
	query.Set("q", searchQuery)
	query.Set("limit", strconv.FormatInt(limit, 10))

	var items []models.EntryPickerItem
	path := fmt.Sprintf("/api/vaults/%d/relation-entries", vaultID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

// ResolveRelations пакетно разрешает ссылки. Ключ результата — строка
// "entry_id:vault_id"; удаленные записи помечены Exists=false.
func (c *httpClient) ResolveRelations(ctx context.Context, refs []models.RelationValue) (map[string]models.ResolvedRelation, error) {
	body := models.ResolveRelationsParams{Refs: refs}
	var resolved map[string]models.ResolvedRelation
	if err := c.do(ctx, http.MethodPost, "/api/relations/resolve", nil, body, &resolved, http.StatusOK); err != nil {
		return nil, err
	}
	return resolved, nil
}
