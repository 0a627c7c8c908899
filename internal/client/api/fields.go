package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/huy1235588/Vaultrs/models"
)

// CreateField создает описание поля коллекции.
func (c *httpClient) CreateField(ctx context.Context, params models.CreateFieldParams) (*models.FieldDefinition, error) {
	var field models.FieldDefinition
	if err := c.do(ctx, http.MethodPost, "/api/fields", nil, params, &field, http.StatusCreated); err != nil {
		return nil, err
	}
	return &field, nil
}

// GetField возвращает описание поля по id.
func (c *httpClient) GetField(ctx context.Context, id int64) (*models.FieldDefinition, error) {
	var field models.FieldDefinition
	path := fmt.Sprintf("/api/fields/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &field, http.StatusOK); err != nil {
		return nil, err
	}
	return &field, nil
}

// ListFields возвращает поля коллекции, отсортированные по position.
func (c *httpClient) ListFields(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error) {
	var fields []models.FieldDefinition
	path := fmt.Sprintf("/api/vaults/%d/fields", vaultID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &fields, http.StatusOK); err != nil {
		return nil, err
	}
	return fields, nil
}

// UpdateField применяет частичный патч описания поля.
func (c *httpClient) UpdateField(ctx context.Context, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error) {
	var field models.FieldDefinition
	path := fmt.Sprintf("/api/fields/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, params, &field, http.StatusOK); err != nil {
		return nil, err
	}
	return &field, nil
}

// DeleteField удаляет описание поля. Значения в метаданных записей
// при этом не трогаются (осиротевшие ключи допускаются).
func (c *httpClient) DeleteField(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/fields/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, http.StatusNoContent)
}

// ReorderFields отправляет полный список id полей коллекции в новом порядке.
func (c *httpClient) ReorderFields(ctx context.Context, vaultID int64, ids []int64) error {
	path := fmt.Sprintf("/api/vaults/%d/fields/order", vaultID)
	body := models.ReorderFieldsParams{IDs: ids}
	return c.do(ctx, http.MethodPut, path, nil, body, nil, http.StatusNoContent)
}
