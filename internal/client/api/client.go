package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/huy1235588/Vaultrs/models" // Импортируем общие модели
)

// Client определяет интерфейс для взаимодействия с API сервера Vaultrs.
// Каждый вызов выполняет ровно один исходящий запрос: без повторов,
// без кеширования; ошибки бэкенда возвращаются без интерпретации.
type Client interface {
	// Register регистрирует нового пользователя.
	Register(ctx context.Context, username, password string) error
	// Login аутентифицирует пользователя и возвращает JWT токен.
	Login(ctx context.Context, username, password string) (string, error)
	// SetAuthToken устанавливает JWT токен для аутентифицированных запросов.
	SetAuthToken(token string)

	// CreateVault создает коллекцию.
	CreateVault(ctx context.Context, params models.CreateVaultParams) (*models.Vault, error)
	// GetVault возвращает коллекцию по id.
	GetVault(ctx context.Context, id int64) (*models.Vault, error)
	// ListVaults возвращает все коллекции пользователя (новые сверху).
	ListVaults(ctx context.Context) ([]models.Vault, error)
	// UpdateVault применяет частичный патч коллекции.
	UpdateVault(ctx context.Context, id int64, params models.UpdateVaultParams) (*models.Vault, error)
	// DeleteVault удаляет коллекцию со всем содержимым.
	DeleteVault(ctx context.Context, id int64) error

	// CreateField создает описание поля (позиция назначается в конце).
	CreateField(ctx context.Context, params models.CreateFieldParams) (*models.FieldDefinition, error)
	// GetField возвращает описание поля по id.
	GetField(ctx context.Context, id int64) (*models.FieldDefinition, error)
	// ListFields возвращает поля коллекции в порядке position.
	ListFields(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error)
	// UpdateField применяет частичный патч описания поля.
	UpdateField(ctx context.Context, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error)
	// DeleteField удаляет описание поля.
	DeleteField(ctx context.Context, id int64) error
	// ReorderFields атомарно переназначает позиции по полному списку id.
	ReorderFields(ctx context.Context, vaultID int64, ids []int64) error

	// CreateEntry создает запись.
	CreateEntry(ctx context.Context, params models.CreateEntryParams) (*models.Entry, error)
	// GetEntry возвращает запись по id.
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	// ListEntries возвращает страницу записей коллекции (нумерация с нуля).
	ListEntries(ctx context.Context, vaultID, page, limit int64) (*models.PaginatedEntries, error)
	// UpdateEntry применяет частичный патч записи.
	UpdateEntry(ctx context.Context, id int64, params models.UpdateEntryParams) (*models.Entry, error)
	// DeleteEntry удаляет запись вместе с локальной обложкой.
	DeleteEntry(ctx context.Context, id int64) error
	// SearchEntries выполняет полнотекстовый поиск по коллекции.
	SearchEntries(ctx context.Context, vaultID int64, query string, page, limit int64) (*models.SearchResult, error)

	// UploadCoverImage загружает файл обложки записи.
	UploadCoverImage(ctx context.Context, entryID int64, filename string, data io.Reader) (*models.Entry, error)
	// SetCoverURL сохраняет внешний URL обложки как есть, без скачивания.
	SetCoverURL(ctx context.Context, entryID int64, coverURL string) (*models.Entry, error)
	// GetThumbnail возвращает миниатюру обложки как data URL.
	GetThumbnail(ctx context.Context, entryID int64) (string, error)
	// RemoveCover убирает обложку записи.
	RemoveCover(ctx context.Context, entryID int64) (*models.Entry, error)

	// SearchEntriesForRelation ищет записи-кандидаты для relation-поля.
	SearchEntriesForRelation(ctx context.Context, vaultID int64, query string, limit int64) ([]models.EntryPickerItem, error)
	// ResolveRelations пакетно разрешает ссылки в отображаемые сводки.
	ResolveRelations(ctx context.Context, refs []models.RelationValue) (map[string]models.ResolvedRelation, error)
}

// httpClient реализует интерфейс Client для взаимодействия с сервером по HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://localhost:8080"
	httpClient *http.Client // HTTP клиент для выполнения запросов
	authToken  string       // JWT токен для аутентифицированных запросов
}

// Проверка соответствия интерфейсу.
var _ Client = (*httpClient)(nil)

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// SetAuthToken устанавливает токен для последующих запросов.
func (c *httpClient) SetAuthToken(token string) {
	c.authToken = token
}

// do выполняет запрос к эндпоинту path, сериализуя body (если не nil)
// и декодируя успешный ответ в out (если не nil). Ответы со статусом
// отличным от wantStatus разбираются как ошибка бэкенда.
func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, body, out any, wantStatus int) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL %s: %w", path, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка кодирования тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() // Важно закрывать тело ответа

	if resp.StatusCode != wantStatus {
		return c.parseError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("ошибка декодирования ответа %s %s: %w", method, path, err)
		}
	}
	return nil
}

// setAuthHeader добавляет заголовок Authorization, если токен установлен.
func (c *httpClient) setAuthHeader(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// parseError разбирает тело ошибки {code, message} и возвращает его
// вызывающему без изменений. Статус 401 превращается в ErrAuthorization.
func (c *httpClient) parseError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthorization
	}
	var apiErr Error
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Code == "" {
		return &Error{
			Code:    CodeInternal,
			Message: fmt.Sprintf("неожиданный ответ сервера: статус %d", resp.StatusCode),
		}
	}
	return &apiErr
}

// Register отправляет запрос на регистрацию на сервер.
func (c *httpClient) Register(ctx context.Context, username, password string) error {
	body := models.RegisterRequest{Username: username, Password: password}
	return c.do(ctx, http.MethodPost, "/api/register", nil, body, nil, http.StatusCreated)
}

// Login отправляет запрос на вход и возвращает полученный токен.
func (c *httpClient) Login(ctx context.Context, username, password string) (string, error) {
	body := models.LoginRequest{Username: username, Password: password}
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, body, &resp, http.StatusOK); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("сервер вернул пустой токен")
	}
	return resp.Token, nil
}
