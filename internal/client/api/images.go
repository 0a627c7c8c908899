package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/huy1235588/Vaultrs/models"
)

// UploadCoverImage загружает файл обложки записи одним потоком.
// Формат определяется сервером по содержимому файла.
func (c *httpClient) UploadCoverImage(ctx context.Context, entryID int64, filename string, data io.Reader) (*models.Entry, error) {
	endpoint, err := url.JoinPath(c.baseURL, fmt.Sprintf("/api/entries/%d/cover", entryID))
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL для загрузки обложки: %w", err)
	}
	endpoint += "?" + url.Values{"filename": {filename}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, data)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса на загрузку обложки: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса на загрузку обложки: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var entry models.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("ошибка декодирования ответа на загрузку обложки: %w", err)
	}
	return &entry, nil
}

// SetCoverURL сохраняет внешний URL обложки как есть, без скачивания.
func (c *httpClient) SetCoverURL(ctx context.Context, entryID int64, coverURL string) (*models.Entry, error) {
	var entry models.Entry
	path := fmt.Sprintf("/api/entries/%d/cover/url", entryID)
	body := struct {
		URL string `json:"url"`
	}{URL: coverURL}
	if err := c.do(ctx, http.MethodPut, path, nil, body, &entry, http.StatusOK); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetThumbnail возвращает миниатюру обложки как data URL
// (строка вида "data:image/jpeg;base64,...").
func (c *httpClient) GetThumbnail(ctx context.Context, entryID int64) (string, error) {
	var resp struct {
		Thumbnail string `json:"thumbnail"`
	}
	path := fmt.Sprintf("/api/entries/%d/thumbnail", entryID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp, http.StatusOK); err != nil {
		return "", err
	}
	return resp.Thumbnail, nil
}

// RemoveCover убирает обложку записи.
func (c *httpClient) RemoveCover(ctx context.Context, entryID int64) (*models.Entry, error) {
	var entry models.Entry
	path := fmt.Sprintf("/api/entries/%d/cover", entryID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &entry, http.StatusOK); err != nil {
		return nil, err
	}
	return &entry, nil
}
