package models

// Entry — запись коллекции. Metadata хранит значения пользовательских
// полей как сырую JSON-строку; разбор выполняется через ParseMetadata.
type Entry struct {
	ID             int64   `db:"id" json:"id"`
	VaultID        int64   `db:"vault_id" json:"vault_id"`
	Title          string  `db:"title" json:"title"`
	Description    *string `db:"description" json:"description"`
	CoverImagePath *string `db:"cover_image_path" json:"cover_image_path"`
	Metadata       *string `db:"metadata" json:"metadata"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
	UpdatedAt      string  `db:"updated_at" json:"updated_at"`
}

// CreateEntryParams — тело запроса на создание записи.
type CreateEntryParams struct {
	VaultID     int64   `json:"vault_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Metadata    *string `json:"metadata,omitempty"`
}

// UpdateEntryParams — частичный патч записи. Явный null очищает
// description, cover_image_path и metadata; отсутствие ключа оставляет
// значение без изменений.
type UpdateEntryParams struct {
	Title          Optional[string] `json:"title,omitzero"`
	Description    Optional[string] `json:"description,omitzero"`
	CoverImagePath Optional[string] `json:"cover_image_path,omitzero"`
	Metadata       Optional[string] `json:"metadata,omitzero"`
}

// PaginatedEntries — страница списка записей.
// HasMore вычисляется сервером и является единственным источником
// истины о наличии следующей страницы.
type PaginatedEntries struct {
	Entries []Entry `json:"entries"`
	Total   int64   `json:"total"`
	Page    int64   `json:"page"`
	Limit   int64   `json:"limit"`
	HasMore bool    `json:"has_more"`
}

// SearchResult — результат полнотекстового поиска. Query возвращается
// как есть, чтобы клиент мог отбросить устаревшие ответы.
type SearchResult struct {
	Entries []Entry `json:"entries"`
	Total   int64   `json:"total"`
	Query   string  `json:"query"`
	HasMore bool    `json:"has_more"`
}
