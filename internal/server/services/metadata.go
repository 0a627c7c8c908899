package services

import (
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/huy1235588/Vaultrs/models"
)

// metadataValidator — авторитетная (серверная) проверка метаданных
// записи против описаний полей ее коллекции.
type metadataValidator struct {
	fields []models.FieldDefinition
	byID   map[int64]models.FieldDefinition
}

func newMetadataValidator(fields []models.FieldDefinition) *metadataValidator {
	byID := make(map[int64]models.FieldDefinition, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}
	return &metadataValidator{fields: fields, byID: byID}
}

var serverDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate проверяет сырые метаданные. Возвращает список блокирующих
// ошибок; осиротевшие ключи не блокируют запись, только пишутся в лог.
func (v *metadataValidator) Validate(raw *string) []string {
	metadata := map[string]json.RawMessage{}
	if raw != nil && strings.TrimSpace(*raw) != "" {
		if err := json.Unmarshal([]byte(*raw), &metadata); err != nil {
			return []string{"Invalid metadata JSON: " + err.Error()}
		}
	}

	var errs []string

	// Обязательные поля.
	for _, f := range v.fields {
		if !f.Required {
			continue
		}
		value, ok := metadata[strconv.FormatInt(f.ID, 10)]
		if !ok || isJSONNull(value) {
			errs = append(errs, "Field '"+f.Name+"' is required")
		}
	}

	// Проверка значений по типу.
	for key, value := range metadata {
		fieldID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Printf("[Metadata] Invalid metadata key '%s': not a valid field ID", key)
			continue
		}
		field, ok := v.byID[fieldID]
		if !ok {
			log.Printf("[Metadata] Orphan data detected: field ID %d no longer exists", fieldID)
			continue
		}
		if isJSONNull(value) {
			continue
		}
		if msg := v.validateValue(field, value); msg != "" {
			errs = append(errs, msg)
		}
	}

	return errs
}

// CleanupOrphans реализует ленивую чистку на записи: из метаданных
// выкидываются ключи, не соответствующие существующим полям.
// Некорректный JSON возвращается как есть.
func (v *metadataValidator) CleanupOrphans(raw string) string {
	metadata := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return raw
	}

	cleaned := make(map[string]json.RawMessage, len(metadata))
	for key, value := range metadata {
		fieldID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		if _, ok := v.byID[fieldID]; !ok {
			continue
		}
		cleaned[key] = value
	}

	if removed := len(metadata) - len(cleaned); removed > 0 {
		log.Printf("[Metadata] Cleaned up %d orphan field(s) from entry metadata", removed)
	}

	out, err := json.Marshal(cleaned)
	if err != nil {
		return raw
	}
	return string(out)
}

// validateValue проверяет одно значение против типа и ограничений поля.
// Возвращает текст ошибки или пустую строку.
func (v *metadataValidator) validateValue(field models.FieldDefinition, raw json.RawMessage) string {
	switch field.FieldType {
	case models.FieldTypeText:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "Field '" + field.Name + "': expected text value"
		}
		if field.Options != nil && field.Options.MaxLength != nil && len(text) > *field.Options.MaxLength {
			return "Field '" + field.Name + "': text exceeds maximum length of " + strconv.Itoa(*field.Options.MaxLength)
		}

	case models.FieldTypeNumber:
		var num float64
		if err := json.Unmarshal(raw, &num); err != nil {
			return "Field '" + field.Name + "': expected number value"
		}
		if field.Options != nil {
			if field.Options.Min != nil && num < *field.Options.Min {
				return "Field '" + field.Name + "': value " + formatFloat(num) + " is below minimum " + formatFloat(*field.Options.Min)
			}
			if field.Options.Max != nil && num > *field.Options.Max {
				return "Field '" + field.Name + "': value " + formatFloat(num) + " exceeds maximum " + formatFloat(*field.Options.Max)
			}
		}

	case models.FieldTypeDate:
		var date string
		if err := json.Unmarshal(raw, &date); err != nil {
			return "Date field: expected string value"
		}
		if !serverDateRe.MatchString(date) {
			return "Invalid date format '" + date + "': expected YYYY-MM-DD"
		}

	case models.FieldTypeURL:
		var urlStr string
		if err := json.Unmarshal(raw, &urlStr); err != nil {
			return "URL field: expected string value"
		}
		if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
			return "Invalid URL '" + urlStr + "': must start with http:// or https://"
		}

	case models.FieldTypeBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "Boolean field: expected true or false"
		}

	case models.FieldTypeSelect:
		var selected string
		if err := json.Unmarshal(raw, &selected); err != nil {
			return "Field '" + field.Name + "': expected string value for select"
		}
		if field.Options != nil && len(field.Options.Choices) > 0 {
			for _, c := range field.Options.Choices {
				if c == selected {
					return ""
				}
			}
			return "Field '" + field.Name + "': '" + selected + "' is not a valid choice"
		}

	case models.FieldTypeRelation:
		var rel models.RelationValue
		if err := json.Unmarshal(raw, &rel); err != nil {
			return "Field '" + field.Name + "': expected object with entry_id and vault_id"
		}
		if rel.EntryID <= 0 {
			return "Field '" + field.Name + "': entry_id must be positive"
		}
		if rel.VaultID <= 0 {
			return "Field '" + field.Name + "': vault_id must be positive"
		}
		if field.Options != nil && field.Options.TargetVaultID != nil && rel.VaultID != *field.Options.TargetVaultID {
			return "Field '" + field.Name + "': vault_id " + strconv.FormatInt(rel.VaultID, 10) +
				" does not match target vault " + strconv.FormatInt(*field.Options.TargetVaultID, 10)
		}
	}

	return ""
}

func isJSONNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
