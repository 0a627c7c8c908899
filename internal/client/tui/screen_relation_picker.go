package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huy1235588/Vaultrs/models"
)

// pickerPageLimit — сколько кандидатов запрашивать за раз.
const pickerPageLimit = 20

// openRelationPicker открывает выбор записи для relation-поля.
// Целевая коллекция берется из настроек поля, иначе — активная.
func (m *model) openRelationPicker(field models.FieldDefinition) (tea.Model, tea.Cmd) {
	targetVault, ok := m.vaults.ActiveVaultID()
	if field.Options != nil && field.Options.TargetVaultID != nil {
		targetVault = *field.Options.TargetVaultID
		ok = true
	}
	if !ok {
		return m, nil
	}

	m.pickerFieldID = field.ID
	m.pickerTargetVault = targetVault
	m.pickerInput.SetValue("")
	m.pickerInput.Focus()
	m.pickerList.SetItems([]list.Item{})
	m.pickerList.Title = fmt.Sprintf("Выбор записи для поля '%s'", field.Name)
	m.state = relationPickerScreen

	slog.Debug("Открыт выбор записи", "fieldID", field.ID, "targetVault", targetVault)
	// Пустой запрос возвращает последние записи коллекции
	return m, m.pickerSearchCmd(targetVault, "")
}

// refreshPickerList заполняет список кандидатов.
func (m *model) refreshPickerList(items []models.EntryPickerItem) {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = pickerItem{item: item}
	}
	m.pickerList.SetItems(listItems)
}

// updateRelationPickerScreen обрабатывает выбор записи.
func (m *model) updateRelationPickerScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		var cmd tea.Cmd
		m.pickerList, cmd = m.pickerList.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyEsc:
		m.pickerInput.Blur()
		m.state = entryFormScreen
		return m, tea.ClearScreen
	case keyEnter:
		if item, ok := m.pickerList.SelectedItem().(pickerItem); ok {
			m.formRelations[m.pickerFieldID] = &models.RelationValue{
				EntryID: item.item.ID,
				VaultID: item.item.VaultID,
			}
			m.formRelationTitles[m.pickerFieldID] = item.item.Title
			m.pickerInput.Blur()
			m.state = entryFormScreen
			slog.Debug("Запись выбрана", "fieldID", m.pickerFieldID, "entryID", item.item.ID)
			return m, tea.ClearScreen
		}
		return m, nil
	case keyUp, keyDown:
		var cmd tea.Cmd
		m.pickerList, cmd = m.pickerList.Update(msg)
		return m, cmd
	}

	before := m.pickerInput.Value()
	var cmd tea.Cmd
	m.pickerInput, cmd = m.pickerInput.Update(msg)
	if after := m.pickerInput.Value(); after != before {
		m.triggerPickerSearch(m.pickerTargetVault, after)
	}
	return m, cmd
}

// viewRelationPickerScreen отображает строку поиска и список кандидатов.
func (m *model) viewRelationPickerScreen() string {
	var b strings.Builder
	b.WriteString(m.pickerInput.View() + "\n")
	b.WriteString(m.pickerList.View())
	return b.String()
}
