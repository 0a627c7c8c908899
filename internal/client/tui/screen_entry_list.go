package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huy1235588/Vaultrs/models"
)

// refreshEntryList перечитывает видимые записи из EntryStore.
// В режиме поиска видны результаты поиска, иначе — просматриваемый список.
func (m *model) refreshEntryList() {
	entries := m.entries.VisibleEntries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryListItem{entry: e}
	}
	m.entryList.SetItems(items)

	if vault, ok := m.vaults.ActiveVault(); ok {
		if m.entries.InSearchMode() {
			m.entryList.Title = fmt.Sprintf("%s — найдено %d", vault.Name, m.entries.SearchTotal())
		} else {
			m.entryList.Title = fmt.Sprintf("%s — %d записей", vault.Name, m.entries.Total())
		}
	}
}

// refreshEntryInList обновляет одну запись в элементах списка после
// изменения обложки (стор об этом изменении не знает).
func (m *model) refreshEntryInList(entry *models.Entry) {
	if entry == nil {
		return
	}
	for i, item := range m.entryList.Items() {
		if li, ok := item.(entryListItem); ok && li.entry.ID == entry.ID {
			m.entryList.SetItem(i, entryListItem{entry: *entry})
			return
		}
	}
}

// selectedEntryItem возвращает запись под курсором.
func (m *model) selectedEntryItem() (entryListItem, bool) {
	item, ok := m.entryList.SelectedItem().(entryListItem)
	return item, ok
}

// updateEntryListScreen обрабатывает сообщения для экрана списка записей.
func (m *model) updateEntryListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		var cmd tea.Cmd
		m.entryList, cmd = m.entryList.Update(msg)
		return m, cmd
	}

	if m.confirmationPrompt != "" {
		return m.handleEntryDeleteConfirmation(keyMsg)
	}

	// В режиме ввода поискового запроса клавиши идут в строку поиска
	if m.searchActive {
		return m.updateSearchInput(keyMsg)
	}

	switch keyMsg.String() {
	case keyEsc:
		if m.entries.InSearchMode() {
			// Возврат из результатов поиска к просмотру
			m.entries.ClearSearch()
			m.searchInput.SetValue("")
			m.refreshEntryList()
			return m, nil
		}
		m.state = vaultListScreen
		return m, tea.ClearScreen
	case "/":
		m.searchActive = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case "n":
		// Подгрузка следующей страницы (только в режиме просмотра)
		if vaultID, ok := m.vaults.ActiveVaultID(); ok && !m.entries.InSearchMode() && m.entries.HasMore() {
			newModel, statusCmd := m.setStatusMessage("Загрузка...")
			return newModel, tea.Batch(m.loadMoreEntriesCmd(vaultID), statusCmd)
		}
	case keyEnter:
		if item, ok := m.selectedEntryItem(); ok {
			return m.openEntryDetail(item.entry)
		}
	case keyAdd:
		return m.openEntryForm(nil)
	case keyEdit:
		if item, ok := m.selectedEntryItem(); ok {
			entry := item.entry
			return m.openEntryForm(&entry)
		}
	case keyDelete:
		if item, ok := m.selectedEntryItem(); ok {
			m.confirmationPrompt = fmt.Sprintf("Удалить запись '%s'? (y/n)", item.entry.Title)
			m.pendingDeleteID = item.entry.ID
			return m, nil
		}
	case "f":
		m.refreshFieldList()
		m.state = fieldManagerScreen
		return m, tea.ClearScreen
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

// updateSearchInput обрабатывает ввод в строке поиска.
// Каждое изменение запроса перепланирует дебаунсированный запрос.
func (m *model) updateSearchInput(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyEsc:
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchDebounce.Stop()
		m.entries.ClearSearch()
		m.refreshEntryList()
		return m, nil
	case keyEnter, keyDown:
		// Переводим фокус в список, не сбрасывая результаты
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(keyMsg)
	after := m.searchInput.Value()

	if after != before {
		vaultID, ok := m.vaults.ActiveVaultID()
		if !ok {
			return m, cmd
		}
		if strings.TrimSpace(after) == "" {
			m.searchDebounce.Stop()
			m.entries.ClearSearch()
			m.refreshEntryList()
			return m, cmd
		}
		m.triggerSearch(vaultID, after)
	}
	return m, cmd
}

// handleSearchFinishedMsg применяет результат дебаунсированного поиска.
// Устаревшие ответы (запрос уже изменился) отбрасываются.
func (m *model) handleSearchFinishedMsg(msg searchFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.handleErrorMsg(errMsg{err: msg.err})
	}
	if msg.query != m.searchInput.Value() {
		slog.Debug("Ответ на устаревший поисковый запрос отброшен", "query", msg.query)
		return m, nil
	}
	m.refreshEntryList()
	return m, nil
}

// handleEntryDeleteConfirmation обрабатывает подтверждение удаления записи.
func (m *model) handleEntryDeleteConfirmation(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDeleteID
	m.confirmationPrompt = ""
	m.pendingDeleteID = 0
	if keyMsg.String() == "y" || keyMsg.String() == "Y" {
		slog.Info("Удаление записи подтверждено", "entryID", id)
		newModel, statusCmd := m.setStatusMessage("Удаление...")
		return newModel, tea.Batch(m.deleteEntryCmd(id), statusCmd)
	}
	return m, nil
}

// viewEntryListScreen отображает строку поиска и список записей.
func (m *model) viewEntryListScreen() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View() + "\n")
	b.WriteString(m.entryList.View())
	if !m.entries.InSearchMode() && m.entries.HasMore() {
		b.WriteString("\n… есть еще записи, n — загрузить")
	}
	return b.String()
}
