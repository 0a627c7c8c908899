package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// refreshVaultList перечитывает элементы списка из VaultStore.
func (m *model) refreshVaultList() {
	vaults := m.vaults.Vaults()
	items := make([]list.Item, len(vaults))
	for i, v := range vaults {
		items[i] = vaultItem{vault: v}
	}
	m.vaultList.SetItems(items)
	if m.username != "" {
		m.vaultList.Title = fmt.Sprintf("Коллекции (%s)", m.username)
	}
}

// selectedVault возвращает коллекцию под курсором.
func (m *model) selectedVault() (vaultItem, bool) {
	item, ok := m.vaultList.SelectedItem().(vaultItem)
	return item, ok
}

// updateVaultListScreen обрабатывает сообщения для экрана списка коллекций.
func (m *model) updateVaultListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Двухшаговое подтверждение удаления
		if m.confirmationPrompt != "" {
			return m.handleVaultDeleteConfirmation(keyMsg)
		}

		switch keyMsg.String() {
		case keyQuit:
			return m, tea.Quit
		case keyEnter:
			if item, ok := m.selectedVault(); ok {
				slog.Info("Открытие коллекции", "vaultID", item.vault.ID, "name", item.vault.Name)
				newModel, statusCmd := m.setStatusMessage("Загрузка коллекции...")
				return newModel, tea.Batch(m.openVaultCmd(item.vault.ID), statusCmd)
			}
		case keyAdd:
			m.openVaultForm(0, "", "")
			return m, textinput.Blink
		case keyEdit:
			if item, ok := m.selectedVault(); ok {
				desc := ""
				if item.vault.Description != nil {
					desc = *item.vault.Description
				}
				m.openVaultForm(item.vault.ID, item.vault.Name, desc)
				return m, textinput.Blink
			}
		case keyDelete:
			if item, ok := m.selectedVault(); ok {
				m.confirmationPrompt = fmt.Sprintf(
					"Удалить коллекцию '%s' со всеми записями? (y/n)", item.vault.Name)
				m.pendingDeleteID = item.vault.ID
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.vaultList, cmd = m.vaultList.Update(msg)
	return m, cmd
}

// handleVaultDeleteConfirmation обрабатывает ответ на запрос подтверждения.
func (m *model) handleVaultDeleteConfirmation(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDeleteID
	m.confirmationPrompt = ""
	m.pendingDeleteID = 0
	if keyMsg.String() == "y" || keyMsg.String() == "Y" {
		slog.Info("Удаление коллекции подтверждено", "vaultID", id)
		newModel, statusCmd := m.setStatusMessage("Удаление...")
		return newModel, tea.Batch(m.deleteVaultCmd(id), statusCmd)
	}
	return m, nil
}

// handleVaultOpenedMsg переводит на экран записей открытой коллекции.
func (m *model) handleVaultOpenedMsg(msg vaultOpenedMsg) (tea.Model, tea.Cmd) {
	m.state = entryListScreen
	m.searchActive = false
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.refreshEntryList()
	slog.Debug("Коллекция открыта", "vaultID", msg.vaultID,
		"fields", len(m.fields.Fields()), "entries", len(m.entries.Entries()))
	return m, tea.ClearScreen
}

// openVaultForm подготавливает форму создания/переименования коллекции.
func (m *model) openVaultForm(id int64, name, description string) {
	m.editingVaultID = id
	m.vaultNameInput.SetValue(name)
	m.vaultDescInput.SetValue(description)
	m.vaultFormFocusedField = 0
	m.vaultNameInput.Focus()
	m.vaultDescInput.Blur()
	m.state = vaultFormScreen
}

// updateVaultFormScreen обрабатывает ввод в форме коллекции.
func (m *model) updateVaultFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	submitAction := func() (tea.Model, tea.Cmd) {
		name := strings.TrimSpace(m.vaultNameInput.Value())
		if name == "" {
			return m.setStatusMessage("Название не может быть пустым")
		}
		desc := strings.TrimSpace(m.vaultDescInput.Value())
		newModel, statusCmd := m.setStatusMessage("Сохранение...")
		return newModel, tea.Batch(m.saveVaultCmd(m.editingVaultID, name, desc), statusCmd)
	}

	return m.handleCredentialsInput(
		msg,
		&m.vaultNameInput,
		&m.vaultDescInput,
		&m.vaultFormFocusedField,
		submitAction,
		vaultListScreen,
	)
}

// viewVaultFormScreen отображает форму коллекции.
func (m *model) viewVaultFormScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	title := "Новая коллекция"
	if m.editingVaultID != 0 {
		title = "Изменение коллекции"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(m.vaultNameInput.View() + "\n")
	b.WriteString(m.vaultDescInput.View() + "\n")
	return b.String()
}
