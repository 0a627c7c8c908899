package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/huy1235588/Vaultrs/models"
)

// CreateEntry создает запись.
func (c *httpClient) CreateEntry(ctx context.Context, params models.CreateEntryParams) (*models.Entry, error) {
	var entry models.Entry
	if err := c.do(ctx, http.MethodPost, "/api/entries", nil, params, &entry, http.StatusCreated); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntry возвращает запись по id.
func (c *httpClient) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	var entry models.Entry
	path := fmt.Sprintf("/api/entries/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &entry, http.StatusOK); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries возвращает страницу записей коллекции.
func (c *httpClient) ListEntries(ctx context.Context, vaultID, page, limit int64) (*models.PaginatedEntries, error) {
	query := url.Values{}
	query.Set("page", strconv.FormatInt(page, 10))
	query.Set("limit", strconv.FormatInt(limit, 10))

	var result models.PaginatedEntries
	path := fmt.Sprintf("/api/vaults/%d/entries", vaultID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateEntry применяет частичный патч записи.
func (c *httpClient) UpdateEntry(ctx context.Context, id int64, params models.UpdateEntryParams) (*models.Entry, error) {
	var entry models.Entry
	path := fmt.Sprintf("/api/entries/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, params, &entry, http.StatusOK); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry удаляет запись. Локальный файл обложки удаляется сервером.
func (c *httpClient) DeleteEntry(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/entries/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, http.StatusNoContent)
}

// SearchEntries выполняет полнотекстовый поиск по коллекции.
func (c *httpClient) SearchEntries(ctx context.Context, vaultID int64, searchQuery string, page, limit int64) (*models.SearchResult, error) {
	query := url.Values{}
	query.Set("q", searchQuery)
	query.Set("page", strconv.FormatInt(page, 10))
	query.Set("limit", strconv.FormatInt(limit, 10))

	var result models.SearchResult
	path := fmt.Sprintf("/api/vaults/%d/entries/search", vaultID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}
