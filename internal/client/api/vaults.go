package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/huy1235588/Vaultrs/models"
)

// CreateVault создает коллекцию.
func (c *httpClient) CreateVault(ctx context.Context, params models.CreateVaultParams) (*models.Vault, error) {
	var vault models.Vault
	if err := c.do(ctx, http.MethodPost, "/api/vaults", nil, params, &vault, http.StatusCreated); err != nil {
		return nil, err
	}
	return &vault, nil
}

// GetVault возвращает коллекцию по id.
func (c *httpClient) GetVault(ctx context.Context, id int64) (*models.Vault, error) {
	var vault models.Vault
	path := fmt.Sprintf("/api/vaults/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &vault, http.StatusOK); err != nil {
		return nil, err
	}
	return &vault, nil
}

// ListVaults возвращает все коллекции пользователя.
func (c *httpClient) ListVaults(ctx context.Context) ([]models.Vault, error) {
	var vaults []models.Vault
	if err := c.do(ctx, http.MethodGet, "/api/vaults", nil, nil, &vaults, http.StatusOK); err != nil {
		return nil, err
	}
	return vaults, nil
}

// UpdateVault применяет частичный патч коллекции.
func (c *httpClient) UpdateVault(ctx context.Context, id int64, params models.UpdateVaultParams) (*models.Vault, error) {
	var vault models.Vault
	path := fmt.Sprintf("/api/vaults/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, params, &vault, http.StatusOK); err != nil {
		return nil, err
	}
	return &vault, nil
}

// DeleteVault удаляет коллекцию со всем содержимым.
func (c *httpClient) DeleteVault(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/vaults/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, http.StatusNoContent)
}
