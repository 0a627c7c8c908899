package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MetadataValue — значение пользовательского поля. Размеченное
// объединение: ровно одно из полей заполнено в зависимости от типа поля.
type MetadataValue struct {
	Text     *string
	Number   *float64
	Boolean  *bool
	Relation *RelationValue
}

// MarshalJSON сериализует заполненный вариант как голое JSON-значение.
func (v MetadataValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Text != nil:
		return json.Marshal(*v.Text)
	case v.Number != nil:
		return json.Marshal(*v.Number)
	case v.Boolean != nil:
		return json.Marshal(*v.Boolean)
	case v.Relation != nil:
		return json.Marshal(*v.Relation)
	}
	return []byte("null"), nil
}

// UnmarshalJSON различает варианты по форме JSON-значения:
// строка, число, булево или объект со ссылкой на запись.
func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	*v = MetadataValue{}
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	switch s[0] {
	case '"':
		var t string
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		v.Text = &t
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		v.Boolean = &b
	case '{':
		var r RelationValue
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		v.Relation = &r
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("неизвестная форма значения метаданных: %s", s)
		}
		v.Number = &n
	}
	return nil
}

// EntryMetadata — значения полей записи, ключ — строковый id описания поля.
type EntryMetadata map[string]MetadataValue

// ParseMetadata разбирает сырую JSON-строку из Entry.Metadata.
// Пустая или отсутствующая строка дает пустую карту.
func ParseMetadata(raw *string) (EntryMetadata, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return EntryMetadata{}, nil
	}
	var m EntryMetadata
	if err := json.Unmarshal([]byte(*raw), &m); err != nil {
		return nil, fmt.Errorf("разбор метаданных: %w", err)
	}
	if m == nil {
		m = EntryMetadata{}
	}
	return m, nil
}

// Serialize сериализует метаданные обратно в строку для отправки на сервер.
// Пустая карта дает nil, чтобы не хранить в БД "{}".
func (m EntryMetadata) Serialize() (*string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("сериализация метаданных: %w", err)
	}
	s := string(b)
	return &s, nil
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateValue проверяет одно значение против описания поля.
// Возвращает текст ошибки для отображения в форме или пустую строку.
func ValidateValue(field FieldDefinition, v MetadataValue) string {
	switch field.FieldType {
	case FieldTypeText:
		if v.Text != nil && field.Options != nil && field.Options.MaxLength != nil {
			if len([]rune(*v.Text)) > *field.Options.MaxLength {
				return fmt.Sprintf("Exceeds max length of %d", *field.Options.MaxLength)
			}
		}
	case FieldTypeNumber:
		if v.Number == nil {
			if v.Text != nil && strings.TrimSpace(*v.Text) != "" {
				if _, err := strconv.ParseFloat(strings.TrimSpace(*v.Text), 64); err != nil {
					return "Not a valid number"
				}
			}
			return ""
		}
		if field.Options != nil {
			if field.Options.Max != nil && *v.Number > *field.Options.Max {
				return fmt.Sprintf("Exceeds maximum %s", formatNumber(*field.Options.Max))
			}
			if field.Options.Min != nil && *v.Number < *field.Options.Min {
				return fmt.Sprintf("Below minimum %s", formatNumber(*field.Options.Min))
			}
		}
	case FieldTypeDate:
		if v.Text != nil && *v.Text != "" && !dateRe.MatchString(*v.Text) {
			return "Date must be in YYYY-MM-DD format"
		}
	case FieldTypeURL:
		if v.Text != nil && *v.Text != "" &&
			!strings.HasPrefix(*v.Text, "http://") && !strings.HasPrefix(*v.Text, "https://") {
			return "URL must start with http:// or https://"
		}
	case FieldTypeSelect:
		if v.Text != nil && *v.Text != "" && field.Options != nil {
			for _, c := range field.Options.Choices {
				if c == *v.Text {
					return ""
				}
			}
			return fmt.Sprintf("'%s' is not a valid choice", *v.Text)
		}
	case FieldTypeRelation:
		if v.Relation != nil {
			if v.Relation.EntryID <= 0 || v.Relation.VaultID <= 0 {
				return "Invalid relation reference"
			}
			if field.Options != nil && field.Options.TargetVaultID != nil &&
				v.Relation.VaultID != *field.Options.TargetVaultID {
				return "Relation points to wrong vault"
			}
		}
	}
	return ""
}

// ValidateMetadata выполняет клиентскую проверку всех значений формы.
// Возвращает карту «id поля → текст ошибки»; пустая карта означает,
// что форму можно отправлять.
func ValidateMetadata(fields []FieldDefinition, metadata EntryMetadata) map[string]string {
	errs := make(map[string]string)
	byID := make(map[string]FieldDefinition, len(fields))
	for _, f := range fields {
		byID[strconv.FormatInt(f.ID, 10)] = f
	}
	for _, f := range fields {
		key := strconv.FormatInt(f.ID, 10)
		v, ok := metadata[key]
		if !ok || v.IsEmpty() {
			if f.Required {
				errs[key] = "Required field is empty"
			}
			continue
		}
		if msg := ValidateValue(f, v); msg != "" {
			errs[key] = msg
		}
	}
	// Осиротевшие значения: описание поля уже удалено.
	for key := range metadata {
		if _, ok := byID[key]; !ok {
			errs[key] = "Field no longer exists"
		}
	}
	return errs
}

// IsEmpty сообщает, что ни один вариант не заполнен либо текст пуст.
func (v MetadataValue) IsEmpty() bool {
	if v.Text != nil {
		return strings.TrimSpace(*v.Text) == ""
	}
	return v.Number == nil && v.Boolean == nil && v.Relation == nil
}

// formatNumber печатает число без хвостовых нулей, как это делает
// форматирование по умолчанию в JSON.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
