package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/huy1235588/Vaultrs/models"
)

// Смещение индексов фокуса: 0 — название, 1 — описание, дальше поля.
const formFieldOffset = 2

// openEntryForm подготавливает форму создания (entry == nil) или
// редактирования записи. Набор полей фиксируется на момент открытия.
func (m *model) openEntryForm(entry *models.Entry) (tea.Model, tea.Cmd) {
	m.formFields = m.fields.Fields()
	m.formInputs = make([]textinput.Model, len(m.formFields))
	m.formRelations = map[int64]*models.RelationValue{}
	m.formRelationTitles = map[int64]string{}
	m.formErrors = map[string]string{}
	m.formTitleInput = initTextInput("Название записи", initNameCharLimit)
	m.formDescInput = initTextInput("Описание (необязательно)", initDescCharLimit)

	for i, f := range m.formFields {
		m.formInputs[i] = initTextInput(fieldPlaceholder(f), initDescCharLimit)
	}

	var metadata models.EntryMetadata
	if entry != nil {
		m.editingEntryID = entry.ID
		m.formTitleInput.SetValue(entry.Title)
		if entry.Description != nil {
			m.formDescInput.SetValue(*entry.Description)
		}
		metadata, _ = models.ParseMetadata(entry.Metadata)
		m.fillFormFromMetadata(metadata)
	} else {
		m.editingEntryID = 0
	}

	m.formFocused = 0
	m.formTitleInput.Focus()
	m.prevState = m.state
	m.state = entryFormScreen

	cmds := []tea.Cmd{textinput.Blink, tea.ClearScreen}
	if refs := formRelationRefs(m.formRelations); len(refs) > 0 {
		cmds = append(cmds, m.resolveRelationsCmd(refs))
	}
	return m, tea.Batch(cmds...)
}

// fieldPlaceholder возвращает подсказку для поля формы по типу.
func fieldPlaceholder(f models.FieldDefinition) string {
	switch f.FieldType {
	case models.FieldTypeNumber:
		return "Число"
	case models.FieldTypeDate:
		return "ГГГГ-ММ-ДД"
	case models.FieldTypeURL:
		return "https://..."
	case models.FieldTypeBoolean:
		return "Space: true/false"
	case models.FieldTypeSelect:
		if f.Options != nil && len(f.Options.Choices) > 0 {
			return "Space: " + strings.Join(f.Options.Choices, " / ")
		}
		return "Вариант"
	case models.FieldTypeRelation:
		return "ctrl+o — выбрать запись"
	default:
		return "Текст"
	}
}

// fillFormFromMetadata раскладывает значения метаданных по полям формы.
func (m *model) fillFormFromMetadata(metadata models.EntryMetadata) {
	for i, f := range m.formFields {
		v, ok := metadata[strconv.FormatInt(f.ID, 10)]
		if !ok {
			continue
		}
		if f.FieldType == models.FieldTypeRelation {
			if v.Relation != nil {
				rel := *v.Relation
				m.formRelations[f.ID] = &rel
			}
			continue
		}
		m.formInputs[i].SetValue(metadataValueString(v))
	}
}

// formRelationRefs собирает ссылки формы для пакетного разрешения.
func formRelationRefs(relations map[int64]*models.RelationValue) []models.RelationValue {
	var refs []models.RelationValue
	for _, rel := range relations {
		if rel != nil {
			refs = append(refs, *rel)
		}
	}
	return refs
}

// formInputCount возвращает общее число фокусируемых элементов формы.
func (m *model) formInputCount() int {
	return formFieldOffset + len(m.formInputs)
}

// focusFormField переводит фокус на элемент формы с данным индексом.
func (m *model) focusFormField(idx int) {
	m.formTitleInput.Blur()
	m.formDescInput.Blur()
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}

	m.formFocused = idx
	switch {
	case idx == 0:
		m.formTitleInput.Focus()
	case idx == 1:
		m.formDescInput.Focus()
	default:
		m.formInputs[idx-formFieldOffset].Focus()
	}
}

// focusedFormField возвращает описание поля под фокусом (если фокус на
// пользовательском поле, а не на названии/описании).
func (m *model) focusedFormField() (models.FieldDefinition, bool) {
	idx := m.formFocused - formFieldOffset
	if idx < 0 || idx >= len(m.formFields) {
		return models.FieldDefinition{}, false
	}
	return m.formFields[idx], true
}

// updateEntryFormScreen обрабатывает ввод в форме записи.
func (m *model) updateEntryFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m.updateFocusedFormInput(msg)
	}

	switch keyMsg.String() {
	case keyEsc:
		m.state = m.prevState
		return m, tea.ClearScreen
	case keyTab, keyDown:
		m.focusFormField((m.formFocused + 1) % m.formInputCount())
		return m, textinput.Blink
	case keyShiftTab, keyUp:
		m.focusFormField((m.formFocused + m.formInputCount() - 1) % m.formInputCount())
		return m, textinput.Blink
	case keyEnter:
		return m.submitEntryForm()
	case keySpace:
		if field, ok := m.focusedFormField(); ok {
			if m.cycleToggleField(field) {
				return m, nil
			}
		}
	case "ctrl+o":
		if field, ok := m.focusedFormField(); ok && field.FieldType == models.FieldTypeRelation {
			return m.openRelationPicker(field)
		}
	case "ctrl+x":
		if field, ok := m.focusedFormField(); ok && field.FieldType == models.FieldTypeRelation {
			delete(m.formRelations, field.ID)
			delete(m.formRelationTitles, field.ID)
			return m, nil
		}
	}

	// Relation-поля редактируются только через выбор записи
	if field, ok := m.focusedFormField(); ok {
		switch field.FieldType {
		case models.FieldTypeRelation, models.FieldTypeBoolean, models.FieldTypeSelect:
			return m, nil
		}
	}
	return m.updateFocusedFormInput(msg)
}

// cycleToggleField переключает значение boolean/select поля по Space.
// Возвращает false, если поле не переключаемое.
func (m *model) cycleToggleField(field models.FieldDefinition) bool {
	idx := m.formFocused - formFieldOffset
	input := &m.formInputs[idx]

	switch field.FieldType {
	case models.FieldTypeBoolean:
		switch input.Value() {
		case "":
			input.SetValue("true")
		case "true":
			input.SetValue("false")
		default:
			input.SetValue("")
		}
		return true
	case models.FieldTypeSelect:
		if field.Options == nil || len(field.Options.Choices) == 0 {
			return true
		}
		choices := field.Options.Choices
		current := input.Value()
		next := choices[0]
		for i, c := range choices {
			if c == current {
				if i == len(choices)-1 {
					next = "" // После последнего варианта — пустое значение
				} else {
					next = choices[i+1]
				}
				break
			}
		}
		input.SetValue(next)
		return true
	}
	return false
}

// updateFocusedFormInput передает сообщение активному полю ввода.
func (m *model) updateFocusedFormInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.formFocused == 0:
		m.formTitleInput, cmd = m.formTitleInput.Update(msg)
	case m.formFocused == 1:
		m.formDescInput, cmd = m.formDescInput.Update(msg)
	default:
		idx := m.formFocused - formFieldOffset
		if idx >= 0 && idx < len(m.formInputs) {
			m.formInputs[idx], cmd = m.formInputs[idx].Update(msg)
		}
	}
	return m, cmd
}

// buildFormMetadata собирает введенные значения в метаданные.
// Непарсящиеся числа остаются текстом: клиентская валидация пометит их.
func (m *model) buildFormMetadata() models.EntryMetadata {
	metadata := models.EntryMetadata{}
	for i, f := range m.formFields {
		key := strconv.FormatInt(f.ID, 10)
		if f.FieldType == models.FieldTypeRelation {
			if rel, ok := m.formRelations[f.ID]; ok && rel != nil {
				metadata[key] = models.MetadataValue{Relation: rel}
			}
			continue
		}

		raw := strings.TrimSpace(m.formInputs[i].Value())
		if raw == "" {
			continue
		}
		switch f.FieldType {
		case models.FieldTypeNumber:
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				metadata[key] = models.MetadataValue{Number: &n}
			} else {
				metadata[key] = models.MetadataValue{Text: &raw}
			}
		case models.FieldTypeBoolean:
			b := raw == "true"
			metadata[key] = models.MetadataValue{Boolean: &b}
		default:
			metadata[key] = models.MetadataValue{Text: &raw}
		}
	}
	return metadata
}

// submitEntryForm валидирует форму и отправляет запись на сервер.
// При ошибках валидации запрос не уходит: ошибки остаются на форме.
func (m *model) submitEntryForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formTitleInput.Value())
	metadata := m.buildFormMetadata()

	errs := models.ValidateMetadata(m.formFields, metadata)
	if title == "" {
		errs["title"] = "Название обязательно"
	}
	if len(errs) > 0 {
		m.formErrors = errs
		return m.setStatusMessage("Исправьте ошибки формы")
	}
	m.formErrors = map[string]string{}

	metaStr, err := metadata.Serialize()
	if err != nil {
		return m.setStatusMessage("Ошибка: " + err.Error())
	}
	var desc *string
	if d := strings.TrimSpace(m.formDescInput.Value()); d != "" {
		desc = &d
	}

	newModel, statusCmd := m.setStatusMessage("Сохранение...")
	return newModel, tea.Batch(m.saveEntryCmd(m.editingEntryID, title, desc, metaStr), statusCmd)
}

// handleEntrySavedMsg завершает сохранение записи.
func (m *model) handleEntrySavedMsg(msg entrySavedMsg) (tea.Model, tea.Cmd) {
	m.refreshEntryList()
	status := "Запись обновлена"
	if msg.created {
		status = "Запись создана"
	}
	if m.prevState == entryDetailScreen && msg.entry != nil {
		newModel, openCmd := m.openEntryDetail(*msg.entry)
		_, statusCmd := m.setStatusMessage(status)
		return newModel, tea.Batch(openCmd, statusCmd)
	}
	m.state = entryListScreen
	return m.setStatusMessage(status)
}

// relationDisplay возвращает отображаемый текст relation-значения формы.
func (m *model) relationDisplay(field models.FieldDefinition) string {
	rel, ok := m.formRelations[field.ID]
	if !ok || rel == nil {
		return "—"
	}
	if title, ok := m.formRelationTitles[field.ID]; ok {
		return title
	}
	if res, ok := m.resolvedRelations[rel.Key()]; ok {
		return res.Title
	}
	return fmt.Sprintf("запись #%d", rel.EntryID)
}

// viewEntryFormScreen отображает форму записи.
func (m *model) viewEntryFormScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	header := "Новая запись"
	if m.editingEntryID != 0 {
		header = "Изменение записи"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")

	writeRow := func(idx int, label, content, errKey string) {
		cursor := "  "
		if m.formFocused == idx {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, labelStyle.Render(label)))
		b.WriteString("  " + content + "\n")
		if msg, ok := m.formErrors[errKey]; ok {
			b.WriteString("  " + errorStyle.Render(msg) + "\n")
		}
	}

	writeRow(0, "Название", m.formTitleInput.View(), "title")
	writeRow(1, "Описание", m.formDescInput.View(), "description")

	for i, f := range m.formFields {
		label := f.Name
		if f.Required {
			label += " *"
		}
		content := m.formInputs[i].View()
		if f.FieldType == models.FieldTypeRelation {
			content = m.relationDisplay(f)
		}
		writeRow(formFieldOffset+i, label, content, strconv.FormatInt(f.ID, 10))
	}
	return b.String()
}
