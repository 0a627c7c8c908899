//nolint:testpackage // Тесты в том же пакете для доступа к приватным компонентам
package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/models"
)

// setupEntryForm подготавливает форму записи с заданным набором полей.
func setupEntryForm(m *model, fields []models.FieldDefinition) {
	m.formFields = fields
	m.formInputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		m.formInputs[i] = initTextInput(fieldPlaceholder(f), initDescCharLimit)
	}
	m.formRelations = map[int64]*models.RelationValue{}
	m.formRelationTitles = map[int64]string{}
	m.formErrors = map[string]string{}
	m.formTitleInput = initTextInput("Название записи", initNameCharLimit)
	m.formDescInput = initTextInput("Описание", initDescCharLimit)
	m.state = entryFormScreen
}

// TestBuildFormMetadata проверяет сборку метаданных из полей формы.
func TestBuildFormMetadata(t *testing.T) {
	fields := []models.FieldDefinition{
		{ID: 1, FieldType: models.FieldTypeText},
		{ID: 2, FieldType: models.FieldTypeNumber},
		{ID: 3, FieldType: models.FieldTypeNumber},
		{ID: 4, FieldType: models.FieldTypeBoolean},
		{ID: 5, FieldType: models.FieldTypeRelation},
		{ID: 6, FieldType: models.FieldTypeText},
	}

	m, _ := newTestModel(nil)
	setupEntryForm(m, fields)
	m.formInputs[0].SetValue("  Герберт  ")
	m.formInputs[1].SetValue("8.5")
	m.formInputs[2].SetValue("не число")
	m.formInputs[3].SetValue("true")
	m.formRelations[5] = &models.RelationValue{EntryID: 42, VaultID: 7}
	// Поле 6 остается пустым и в метаданные не попадает

	metadata := m.buildFormMetadata()

	require.Len(t, metadata, 5)
	assert.Equal(t, "Герберт", *metadata["1"].Text, "текст обрезается по краям")
	assert.InEpsilon(t, 8.5, *metadata["2"].Number, 1e-9)
	assert.Equal(t, "не число", *metadata["3"].Text, "непарсящееся число остается текстом для валидации")
	assert.True(t, *metadata["4"].Boolean)
	assert.Equal(t, models.RelationValue{EntryID: 42, VaultID: 7}, *metadata["5"].Relation)
	assert.NotContains(t, metadata, "6")
}

// TestSubmitEntryForm_ValidationBlocksSubmit проверяет, что при ошибках
// клиентской валидации запрос на сервер не уходит.
func TestSubmitEntryForm_ValidationBlocksSubmit(t *testing.T) {
	fields := []models.FieldDefinition{
		{ID: 10, Name: "Жанр", FieldType: models.FieldTypeText, Required: true},
		{ID: 11, Name: "Оценка", FieldType: models.FieldTypeNumber,
			Options: &models.FieldOptions{Max: floatPtr(10)}},
	}

	m, _ := newTestModel(nil)
	setupEntryForm(m, fields)
	m.formTitleInput.SetValue("") // Пустое название — тоже ошибка
	m.formInputs[1].SetValue("11")

	_, _ = m.submitEntryForm()

	assert.Equal(t, entryFormScreen, m.state, "форма с ошибками не закрывается")
	assert.Equal(t, "Название обязательно", m.formErrors["title"])
	assert.Equal(t, "Required field is empty", m.formErrors["10"])
	assert.Equal(t, "Exceeds maximum 10", m.formErrors["11"])
}

// TestSubmitEntryForm_ValidFormClearsErrors проверяет очистку ошибок
// после исправления формы.
func TestSubmitEntryForm_ValidFormClearsErrors(t *testing.T) {
	fields := []models.FieldDefinition{
		{ID: 10, Name: "Жанр", FieldType: models.FieldTypeText, Required: true},
	}

	m, _ := newTestModel(nil)
	setupEntryForm(m, fields)
	m.formErrors = map[string]string{"10": "Required field is empty"}
	m.formTitleInput.SetValue("Dune")
	m.formInputs[0].SetValue("фантастика")

	_, cmd := m.submitEntryForm()

	assert.Empty(t, m.formErrors)
	assert.NotNil(t, cmd, "валидная форма запускает сохранение")
}

// TestCycleToggleField проверяет переключение boolean и select полей.
func TestCycleToggleField(t *testing.T) {
	t.Run("BooleanЦиклТрехСостояний", func(t *testing.T) {
		fields := []models.FieldDefinition{{ID: 1, FieldType: models.FieldTypeBoolean}}
		m, _ := newTestModel(nil)
		setupEntryForm(m, fields)
		m.formFocused = formFieldOffset

		require.True(t, m.cycleToggleField(fields[0]))
		assert.Equal(t, "true", m.formInputs[0].Value())
		require.True(t, m.cycleToggleField(fields[0]))
		assert.Equal(t, "false", m.formInputs[0].Value())
		require.True(t, m.cycleToggleField(fields[0]))
		assert.Empty(t, m.formInputs[0].Value())
	})

	t.Run("SelectПереборВариантовИПустота", func(t *testing.T) {
		fields := []models.FieldDefinition{{
			ID:        2,
			FieldType: models.FieldTypeSelect,
			Options:   &models.FieldOptions{Choices: []string{"а", "б"}},
		}}
		m, _ := newTestModel(nil)
		setupEntryForm(m, fields)
		m.formFocused = formFieldOffset

		require.True(t, m.cycleToggleField(fields[0]))
		assert.Equal(t, "а", m.formInputs[0].Value())
		require.True(t, m.cycleToggleField(fields[0]))
		assert.Equal(t, "б", m.formInputs[0].Value())
		require.True(t, m.cycleToggleField(fields[0]))
		assert.Empty(t, m.formInputs[0].Value(), "после последнего варианта значение очищается")
	})

	t.Run("ТекстовоеПолеНеПереключается", func(t *testing.T) {
		fields := []models.FieldDefinition{{ID: 3, FieldType: models.FieldTypeText}}
		m, _ := newTestModel(nil)
		setupEntryForm(m, fields)
		m.formFocused = formFieldOffset

		assert.False(t, m.cycleToggleField(fields[0]))
	})
}

// TestFillFormFromMetadata проверяет заполнение формы при редактировании.
func TestFillFormFromMetadata(t *testing.T) {
	fields := []models.FieldDefinition{
		{ID: 1, FieldType: models.FieldTypeText},
		{ID: 2, FieldType: models.FieldTypeNumber},
		{ID: 3, FieldType: models.FieldTypeRelation},
	}
	m, _ := newTestModel(nil)
	setupEntryForm(m, fields)

	metadata := models.EntryMetadata{
		"1": {Text: strPtr("Герберт")},
		"2": {Number: floatPtr(8.5)},
		"3": {Relation: &models.RelationValue{EntryID: 42, VaultID: 7}},
	}
	m.fillFormFromMetadata(metadata)

	assert.Equal(t, "Герберт", m.formInputs[0].Value())
	assert.Equal(t, "8.5", m.formInputs[1].Value())
	assert.Empty(t, m.formInputs[2].Value(), "relation не редактируется текстом")
	require.Contains(t, m.formRelations, int64(3))
	assert.Equal(t, int64(42), m.formRelations[3].EntryID)
}

// TestFocusFormField проверяет перевод фокуса между элементами формы.
func TestFocusFormField(t *testing.T) {
	fields := []models.FieldDefinition{{ID: 1, FieldType: models.FieldTypeText}}
	m, _ := newTestModel(nil)
	setupEntryForm(m, fields)

	m.focusFormField(0)
	assert.True(t, m.formTitleInput.Focused())

	m.focusFormField(formFieldOffset)
	assert.False(t, m.formTitleInput.Focused())
	assert.True(t, m.formInputs[0].Focused())
	assert.Equal(t, formFieldOffset, m.formFocused)
}

// TestRelationDisplay проверяет отображаемый текст relation-значения.
func TestRelationDisplay(t *testing.T) {
	field := models.FieldDefinition{ID: 5, FieldType: models.FieldTypeRelation}
	m, _ := newTestModel(nil)
	setupEntryForm(m, []models.FieldDefinition{field})

	assert.Equal(t, "—", m.relationDisplay(field), "без значения — прочерк")

	rel := &models.RelationValue{EntryID: 42, VaultID: 7}
	m.formRelations[5] = rel
	assert.Equal(t, "запись #42", m.relationDisplay(field))

	m.resolvedRelations[rel.Key()] = models.ResolvedRelation{Title: "Dune", Exists: true}
	assert.Equal(t, "Dune", m.relationDisplay(field))

	m.formRelationTitles[5] = "Dune Messiah"
	assert.Equal(t, "Dune Messiah", m.relationDisplay(field), "выбор из списка имеет приоритет")
}
