package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FieldType — тип пользовательского поля. Закрытое множество значений.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeURL      FieldType = "url"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRelation FieldType = "relation"
)

// Valid проверяет, что тип поля входит в поддерживаемое множество.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeURL,
		FieldTypeBoolean, FieldTypeSelect, FieldTypeRelation:
		return true
	}
	return false
}

// FieldOptions — типозависимые настройки поля.
// Сериализуются в camelCase, как их хранит бэкенд.
type FieldOptions struct {
	MaxLength     *int     `json:"maxLength,omitempty"`     // Для text
	Min           *float64 `json:"min,omitempty"`           // Для number
	Max           *float64 `json:"max,omitempty"`           // Для number
	Choices       []string `json:"choices,omitempty"`       // Для select
	TargetVaultID *int64   `json:"targetVaultId,omitempty"` // Для relation
	DisplayFields []string `json:"displayFields,omitempty"` // Для relation
}

// Value сериализует опции в JSON-строку для хранения в БД (sqlx).
func (o *FieldOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan читает опции из колонки TEXT.
func (o *FieldOptions) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), o)
	case []byte:
		return json.Unmarshal(v, o)
	default:
		return fmt.Errorf("неподдерживаемый тип колонки options: %T", src)
	}
}

// FieldDefinition — описание одного пользовательского поля коллекции.
// Position задает стабильный порядок отображения: плотный, уникальный
// в пределах коллекции, начинается с нуля.
type FieldDefinition struct {
	ID        int64         `db:"id" json:"id"`
	VaultID   int64         `db:"vault_id" json:"vault_id"`
	Name      string        `db:"name" json:"name"`
	FieldType FieldType     `db:"field_type" json:"field_type"`
	Options   *FieldOptions `db:"options" json:"options"`
	Position  int           `db:"position" json:"position"`
	Required  bool          `db:"required" json:"required"`
	CreatedAt string        `db:"created_at" json:"created_at"`
	UpdatedAt string        `db:"updated_at" json:"updated_at"`
}

// CreateFieldParams — тело запроса на создание поля.
type CreateFieldParams struct {
	VaultID   int64         `json:"vault_id"`
	Name      string        `json:"name"`
	FieldType FieldType     `json:"field_type"`
	Options   *FieldOptions `json:"options,omitempty"`
	Required  bool          `json:"required,omitempty"`
}

// UpdateFieldParams — частичный патч поля.
// Тип поля после создания не меняется; порядок меняется только
// отдельной операцией reorder.
type UpdateFieldParams struct {
	Name     Optional[string]       `json:"name,omitzero"`
	Options  Optional[FieldOptions] `json:"options,omitzero"`
	Required Optional[bool]         `json:"required,omitzero"`
}

// ReorderFieldsParams — полный список id полей коллекции в новом порядке.
type ReorderFieldsParams struct {
	IDs []int64 `json:"ids"`
}
