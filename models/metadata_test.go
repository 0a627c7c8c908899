package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string        { return &s }
func numPtr(f float64) *float64      { return &f }
func intPtr(i int) *int              { return &i }
func int64Ptr(i int64) *int64        { return &i }
func textVal(s string) MetadataValue { return MetadataValue{Text: strPtr(s)} }

func TestParseMetadata(t *testing.T) {
	t.Run("Nil дает пустую карту", func(t *testing.T) {
		m, err := ParseMetadata(nil)
		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("Разбор всех вариантов", func(t *testing.T) {
		raw := `{"1":"hello","2":42.5,"3":true,"4":{"entry_id":7,"vault_id":2}}`
		m, err := ParseMetadata(&raw)
		require.NoError(t, err)
		require.Len(t, m, 4)
		assert.Equal(t, "hello", *m["1"].Text)
		assert.InDelta(t, 42.5, *m["2"].Number, 0.0001)
		assert.True(t, *m["3"].Boolean)
		assert.Equal(t, RelationValue{EntryID: 7, VaultID: 2}, *m["4"].Relation)
	})

	t.Run("Некорректный JSON", func(t *testing.T) {
		raw := `{broken`
		_, err := ParseMetadata(&raw)
		assert.Error(t, err)
	})
}

func TestEntryMetadata_Serialize(t *testing.T) {
	t.Run("Пустая карта дает nil", func(t *testing.T) {
		s, err := EntryMetadata{}.Serialize()
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("Круговой путь сохраняет варианты", func(t *testing.T) {
		m := EntryMetadata{
			"1": textVal("x"),
			"2": {Number: numPtr(3)},
		}
		s, err := m.Serialize()
		require.NoError(t, err)
		got, err := ParseMetadata(s)
		require.NoError(t, err)
		assert.Equal(t, "x", *got["1"].Text)
		assert.InDelta(t, 3.0, *got["2"].Number, 0.0001)
	})
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name  string
		field FieldDefinition
		value MetadataValue
		want  string
	}{
		{
			name:  "Число выше максимума",
			field: FieldDefinition{FieldType: FieldTypeNumber, Options: &FieldOptions{Max: numPtr(5)}},
			value: MetadataValue{Number: numPtr(7)},
			want:  "Exceeds maximum 5",
		},
		{
			name:  "Число ниже минимума",
			field: FieldDefinition{FieldType: FieldTypeNumber, Options: &FieldOptions{Min: numPtr(1)}},
			value: MetadataValue{Number: numPtr(0)},
			want:  "Below minimum 1",
		},
		{
			name:  "Число в границах",
			field: FieldDefinition{FieldType: FieldTypeNumber, Options: &FieldOptions{Min: numPtr(1), Max: numPtr(10)}},
			value: MetadataValue{Number: numPtr(5)},
			want:  "",
		},
		{
			name:  "Не число",
			field: FieldDefinition{FieldType: FieldTypeNumber},
			value: textVal("abc"),
			want:  "Not a valid number",
		},
		{
			name:  "Текст длиннее лимита",
			field: FieldDefinition{FieldType: FieldTypeText, Options: &FieldOptions{MaxLength: intPtr(3)}},
			value: textVal("abcd"),
			want:  "Exceeds max length of 3",
		},
		{
			name:  "Неверная дата",
			field: FieldDefinition{FieldType: FieldTypeDate},
			value: textVal("2024/01/01"),
			want:  "Date must be in YYYY-MM-DD format",
		},
		{
			name:  "Корректная дата",
			field: FieldDefinition{FieldType: FieldTypeDate},
			value: textVal("2024-01-01"),
			want:  "",
		},
		{
			name:  "URL без схемы",
			field: FieldDefinition{FieldType: FieldTypeURL},
			value: textVal("example.com"),
			want:  "URL must start with http:// or https://",
		},
		{
			name:  "Значение вне списка выбора",
			field: FieldDefinition{FieldType: FieldTypeSelect, Options: &FieldOptions{Choices: []string{"a", "b"}}},
			value: textVal("c"),
			want:  "'c' is not a valid choice",
		},
		{
			name:  "Ссылка на чужую коллекцию",
			field: FieldDefinition{FieldType: FieldTypeRelation, Options: &FieldOptions{TargetVaultID: int64Ptr(2)}},
			value: MetadataValue{Relation: &RelationValue{EntryID: 1, VaultID: 3}},
			want:  "Relation points to wrong vault",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateValue(tt.field, tt.value))
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	fields := []FieldDefinition{
		{ID: 1, FieldType: FieldTypeText, Name: "Author", Required: true},
		{ID: 2, FieldType: FieldTypeNumber, Name: "Rating", Options: &FieldOptions{Max: numPtr(5)}},
	}

	t.Run("Пустое обязательное поле", func(t *testing.T) {
		errs := ValidateMetadata(fields, EntryMetadata{})
		assert.Equal(t, "Required field is empty", errs["1"])
	})

	t.Run("Осиротевшее значение", func(t *testing.T) {
		m := EntryMetadata{"1": textVal("x"), "99": textVal("ghost")}
		errs := ValidateMetadata(fields, m)
		assert.Equal(t, "Field no longer exists", errs["99"])
		assert.NotContains(t, errs, "1")
	})

	t.Run("Валидная форма", func(t *testing.T) {
		m := EntryMetadata{"1": textVal("King"), "2": {Number: numPtr(4)}}
		assert.Empty(t, ValidateMetadata(fields, m))
	})
}
