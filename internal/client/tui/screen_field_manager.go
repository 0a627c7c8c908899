package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/huy1235588/Vaultrs/models"
)

// Индексы фокуса формы поля.
const (
	fieldFormFocusName = iota
	fieldFormFocusType
	fieldFormFocusOptions
	fieldFormFocusRequired
	numFieldFormFields
)

// refreshFieldList перечитывает элементы списка из FieldStore.
func (m *model) refreshFieldList() {
	fields := m.fields.Fields()
	items := make([]list.Item, len(fields))
	for i, f := range fields {
		items[i] = fieldItem{field: f}
	}
	m.fieldList.SetItems(items)
	if vault, ok := m.vaults.ActiveVault(); ok {
		m.fieldList.Title = fmt.Sprintf("Поля коллекции '%s'", vault.Name)
	}
}

// selectedField возвращает описание поля под курсором.
func (m *model) selectedField() (fieldItem, bool) {
	item, ok := m.fieldList.SelectedItem().(fieldItem)
	return item, ok
}

// updateFieldManagerScreen обрабатывает сообщения для менеджера полей.
func (m *model) updateFieldManagerScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		var cmd tea.Cmd
		m.fieldList, cmd = m.fieldList.Update(msg)
		return m, cmd
	}

	if m.confirmationPrompt != "" {
		return m.handleFieldDeleteConfirmation(keyMsg)
	}

	switch keyMsg.String() {
	case keyEsc:
		m.state = entryListScreen
		return m, tea.ClearScreen
	case keyAdd:
		m.openFieldForm(nil)
		return m, textinput.Blink
	case keyEdit:
		if item, ok := m.selectedField(); ok {
			field := item.field
			m.openFieldForm(&field)
			return m, textinput.Blink
		}
	case keyDelete:
		if item, ok := m.selectedField(); ok {
			m.confirmationPrompt = fmt.Sprintf(
				"Удалить поле '%s'? Значения в записях станут осиротевшими. (y/n)", item.field.Name)
			m.pendingDeleteID = item.field.ID
			return m, nil
		}
	case "J":
		return m.moveSelectedField(1)
	case "K":
		return m.moveSelectedField(-1)
	}

	var cmd tea.Cmd
	m.fieldList, cmd = m.fieldList.Update(msg)
	return m, cmd
}

// moveSelectedField переставляет поле под курсором на delta позиций и
// отправляет серверу полный список id в новом порядке.
func (m *model) moveSelectedField(delta int) (tea.Model, tea.Cmd) {
	vaultID, ok := m.vaults.ActiveVaultID()
	if !ok {
		return m, nil
	}
	fields := m.fields.Fields()
	idx := m.fieldList.Index()
	target := idx + delta
	if idx < 0 || idx >= len(fields) || target < 0 || target >= len(fields) {
		return m, nil
	}

	ids := make([]int64, len(fields))
	for i, f := range fields {
		ids[i] = f.ID
	}
	ids[idx], ids[target] = ids[target], ids[idx]

	m.fieldList.Select(target)
	slog.Debug("Перестановка полей", "vaultID", vaultID, "ids", ids)
	newModel, statusCmd := m.setStatusMessage("Сохранение порядка...")
	return newModel, tea.Batch(m.reorderFieldsCmd(vaultID, ids), statusCmd)
}

// handleFieldDeleteConfirmation обрабатывает подтверждение удаления поля.
func (m *model) handleFieldDeleteConfirmation(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDeleteID
	m.confirmationPrompt = ""
	m.pendingDeleteID = 0
	if keyMsg.String() == "y" || keyMsg.String() == "Y" {
		slog.Info("Удаление поля подтверждено", "fieldID", id)
		newModel, statusCmd := m.setStatusMessage("Удаление...")
		return newModel, tea.Batch(m.deleteFieldCmd(id), statusCmd)
	}
	return m, nil
}

// openFieldForm подготавливает форму создания/редактирования поля.
// Тип поля фиксируется при создании и не редактируется.
func (m *model) openFieldForm(field *models.FieldDefinition) {
	m.fieldNameInput.SetValue("")
	m.fieldOptionsInput.SetValue("")
	m.fieldTypeIndex = 0
	m.fieldRequired = false
	m.fieldFormError = ""
	m.editingFieldID = 0
	m.editingFieldType = fieldTypeOrder[0]

	if field != nil {
		m.editingFieldID = field.ID
		m.editingFieldType = field.FieldType
		m.fieldNameInput.SetValue(field.Name)
		m.fieldRequired = field.Required
		m.fieldOptionsInput.SetValue(formatFieldOptions(field.FieldType, field.Options))
	}

	m.fieldOptionsInput.Placeholder = optionsPlaceholder(m.currentFieldType())
	m.fieldFormFocused = fieldFormFocusName
	m.fieldNameInput.Focus()
	m.fieldOptionsInput.Blur()
	m.state = fieldFormScreen
}

// currentFieldType возвращает тип поля формы: фиксированный при
// редактировании, выбираемый при создании.
func (m *model) currentFieldType() models.FieldType {
	if m.editingFieldID != 0 {
		return m.editingFieldType
	}
	return fieldTypeOrder[m.fieldTypeIndex]
}

// optionsPlaceholder возвращает подсказку для строки настроек по типу поля.
func optionsPlaceholder(t models.FieldType) string {
	switch t {
	case models.FieldTypeText:
		return "Макс. длина, например 500"
	case models.FieldTypeNumber:
		return "мин,макс — например 0,10"
	case models.FieldTypeSelect:
		return "Варианты через запятую"
	case models.FieldTypeRelation:
		return "id целевой коллекции"
	default:
		return "Без настроек"
	}
}

// formatFieldOptions печатает существующие настройки в строку формы.
func formatFieldOptions(t models.FieldType, o *models.FieldOptions) string {
	if o == nil {
		return ""
	}
	switch t {
	case models.FieldTypeText:
		if o.MaxLength != nil {
			return strconv.Itoa(*o.MaxLength)
		}
	case models.FieldTypeNumber:
		if o.Min != nil || o.Max != nil {
			return fmt.Sprintf("%s,%s", floatOrEmpty(o.Min), floatOrEmpty(o.Max))
		}
	case models.FieldTypeSelect:
		return strings.Join(o.Choices, ", ")
	case models.FieldTypeRelation:
		if o.TargetVaultID != nil {
			return strconv.FormatInt(*o.TargetVaultID, 10)
		}
	}
	return ""
}

func floatOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// parseFieldOptions разбирает строку настроек формы в FieldOptions.
func parseFieldOptions(t models.FieldType, raw string) (*models.FieldOptions, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch t {
	case models.FieldTypeText:
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("макс. длина должна быть положительным числом")
		}
		return &models.FieldOptions{MaxLength: &n}, nil
	case models.FieldTypeNumber:
		parts := strings.SplitN(raw, ",", 2)
		opts := &models.FieldOptions{}
		if v := strings.TrimSpace(parts[0]); v != "" {
			minVal, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("минимум не является числом")
			}
			opts.Min = &minVal
		}
		if len(parts) == 2 {
			if v := strings.TrimSpace(parts[1]); v != "" {
				maxVal, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("максимум не является числом")
				}
				opts.Max = &maxVal
			}
		}
		if opts.Min == nil && opts.Max == nil {
			return nil, nil
		}
		return opts, nil
	case models.FieldTypeSelect:
		var choices []string
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				choices = append(choices, c)
			}
		}
		return &models.FieldOptions{Choices: choices}, nil
	case models.FieldTypeRelation:
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("id коллекции должен быть положительным числом")
		}
		return &models.FieldOptions{TargetVaultID: &id}, nil
	default:
		return nil, nil
	}
}

// updateFieldFormScreen обрабатывает ввод в форме поля.
func (m *model) updateFieldFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m.updateFocusedFieldFormInput(msg)
	}

	switch keyMsg.String() {
	case keyEsc:
		m.state = fieldManagerScreen
		return m, tea.ClearScreen
	case keyTab, keyDown:
		m.focusFieldFormInput((m.fieldFormFocused + 1) % numFieldFormFields)
		return m, textinput.Blink
	case keyShiftTab, keyUp:
		m.focusFieldFormInput((m.fieldFormFocused + numFieldFormFields - 1) % numFieldFormFields)
		return m, textinput.Blink
	case keyEnter:
		return m.submitFieldForm()
	case keySpace:
		switch m.fieldFormFocused {
		case fieldFormFocusType:
			if m.editingFieldID == 0 { // Тип меняется только при создании
				m.fieldTypeIndex = (m.fieldTypeIndex + 1) % len(fieldTypeOrder)
				m.fieldOptionsInput.Placeholder = optionsPlaceholder(m.currentFieldType())
				m.fieldOptionsInput.SetValue("")
			}
			return m, nil
		case fieldFormFocusRequired:
			m.fieldRequired = !m.fieldRequired
			return m, nil
		}
	}
	return m.updateFocusedFieldFormInput(msg)
}

// focusFieldFormInput переводит фокус на элемент формы поля.
func (m *model) focusFieldFormInput(idx int) {
	m.fieldFormFocused = idx
	m.fieldNameInput.Blur()
	m.fieldOptionsInput.Blur()
	switch idx {
	case fieldFormFocusName:
		m.fieldNameInput.Focus()
	case fieldFormFocusOptions:
		m.fieldOptionsInput.Focus()
	}
}

// updateFocusedFieldFormInput передает сообщение активному полю ввода.
func (m *model) updateFocusedFieldFormInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.fieldFormFocused {
	case fieldFormFocusName:
		m.fieldNameInput, cmd = m.fieldNameInput.Update(msg)
	case fieldFormFocusOptions:
		m.fieldOptionsInput, cmd = m.fieldOptionsInput.Update(msg)
	}
	return m, cmd
}

// submitFieldForm валидирует форму поля и отправляет ее на сервер.
func (m *model) submitFieldForm() (tea.Model, tea.Cmd) {
	vaultID, ok := m.vaults.ActiveVaultID()
	if !ok {
		return m, nil
	}
	name := strings.TrimSpace(m.fieldNameInput.Value())
	if name == "" {
		m.fieldFormError = "Название поля обязательно"
		return m, nil
	}

	fieldType := m.currentFieldType()
	options, err := parseFieldOptions(fieldType, m.fieldOptionsInput.Value())
	if err != nil {
		m.fieldFormError = err.Error()
		return m, nil
	}
	m.fieldFormError = ""

	params := models.CreateFieldParams{
		VaultID:   vaultID,
		Name:      name,
		FieldType: fieldType,
		Options:   options,
		Required:  m.fieldRequired,
	}
	newModel, statusCmd := m.setStatusMessage("Сохранение...")
	return newModel, tea.Batch(m.saveFieldCmd(m.editingFieldID, params), statusCmd)
}

// viewFieldFormScreen отображает форму поля.
func (m *model) viewFieldFormScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	header := "Новое поле"
	if m.editingFieldID != 0 {
		header = "Изменение поля"
	}

	cursor := func(idx int) string {
		if m.fieldFormFocused == idx {
			return cursorStyle.Render("> ")
		}
		return "  "
	}

	typeLine := string(m.currentFieldType())
	if m.editingFieldID == 0 {
		typeLine += " (Space — сменить)"
	} else {
		typeLine += " (тип не меняется)"
	}
	requiredLine := "нет"
	if m.fieldRequired {
		requiredLine = "да"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	b.WriteString(cursor(fieldFormFocusName) + labelStyle.Render("Название") + "\n")
	b.WriteString("  " + m.fieldNameInput.View() + "\n")
	b.WriteString(cursor(fieldFormFocusType) + labelStyle.Render("Тип") + "\n")
	b.WriteString("  " + typeLine + "\n")
	b.WriteString(cursor(fieldFormFocusOptions) + labelStyle.Render("Настройки") + "\n")
	b.WriteString("  " + m.fieldOptionsInput.View() + "\n")
	b.WriteString(cursor(fieldFormFocusRequired) + labelStyle.Render("Обязательное") + "\n")
	b.WriteString("  " + requiredLine + " (Space — переключить)\n")
	if m.fieldFormError != "" {
		b.WriteString("\n" + errorStyle.Render(m.fieldFormError) + "\n")
	}
	return b.String()
}
