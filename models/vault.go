package models

// TimeLayout — формат временных меток, которые назначает бэкенд
// (строки вида "2006-01-02 15:04:05", как их хранит SQLite).
const TimeLayout = "2006-01-02 15:04:05"

// Vault представляет коллекцию (хранилище записей со своей схемой полей).
// Тэги `db` используются для маппинга с полями БД с помощью sqlx.
// Тэги `json` используются для (де)сериализации JSON.
type Vault struct {
	ID          int64   `db:"id" json:"id"`
	UserID      int64   `db:"user_id" json:"-"` // Владелец; наружу не отдаем
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	Icon        *string `db:"icon" json:"icon"`
	Color       *string `db:"color" json:"color"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
}

// CreateVaultParams — тело запроса на создание коллекции.
type CreateVaultParams struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// UpdateVaultParams — частичный патч коллекции.
// Отсутствующее поле означает "не менять", явный null очищает значение
// (кроме Name: имя не может быть очищено, null трактуется как отсутствие).
type UpdateVaultParams struct {
	Name        Optional[string] `json:"name,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
	Icon        Optional[string] `json:"icon,omitzero"`
	Color       Optional[string] `json:"color,omitzero"`
}
