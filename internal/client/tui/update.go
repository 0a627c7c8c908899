package tui

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/huy1235588/Vaultrs/internal/client/api"
)

// Update обрабатывает входящие сообщения.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// == Глобальные сообщения (не зависят от экрана) ==
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := m.docStyle.GetFrameSize()
		listWidth := msg.Width - h
		listHeight := msg.Height - v - helpStatusHeightOffset

		m.vaultList.SetSize(listWidth, listHeight)
		m.entryList.SetSize(listWidth, listHeight-1) // Строка поиска над списком
		m.fieldList.SetSize(listWidth, listHeight)
		m.pickerList.SetSize(listWidth, listHeight-1)
		m.searchInput.Width = listWidth - inputWidthOffset
		m.coverInput.Width = listWidth - inputWidthOffset
		return m, nil

	case errMsg:
		return m.handleErrorMsg(msg)

	case clearStatusMsg:
		m.savingStatus = ""
		return m, nil

	case loginSuccessMsg:
		return m.handleLoginSuccessMsg(msg)

	case registerSuccessMsg:
		return m.handleRegisterSuccessMsg(msg)

	case LoginError:
		return m.handleAuthError("Ошибка входа", msg.err)

	case RegisterError:
		return m.handleAuthError("Ошибка регистрации", msg.err)

	case vaultsLoadedMsg:
		m.refreshVaultList()
		return m, nil

	case vaultOpenedMsg:
		return m.handleVaultOpenedMsg(msg)

	case vaultSavedMsg:
		m.refreshVaultList()
		m.state = vaultListScreen
		if msg.created {
			return m.setStatusMessage("Коллекция создана")
		}
		return m.setStatusMessage("Коллекция обновлена")

	case vaultDeletedMsg:
		m.refreshVaultList()
		return m.setStatusMessage("Коллекция удалена")

	case entriesReloadedMsg, entriesAppendedMsg:
		m.refreshEntryList()
		return m, nil

	case searchFinishedMsg:
		return m.handleSearchFinishedMsg(msg)

	case entrySavedMsg:
		return m.handleEntrySavedMsg(msg)

	case entryDeletedMsg:
		m.refreshEntryList()
		m.state = entryListScreen
		return m.setStatusMessage("Запись удалена")

	case fieldsChangedMsg:
		m.refreshFieldList()
		if m.state == fieldFormScreen {
			m.state = fieldManagerScreen
		}
		return m.setStatusMessage(msg.status)

	case relationsResolvedMsg:
		m.resolvedRelations = msg.resolved
		return m, nil

	case pickerResultsMsg:
		m.refreshPickerList(msg.items)
		return m, nil

	case coverUpdatedMsg:
		m.selectedEntry = msg.entry
		m.thumbnailInfo = ""
		m.state = entryDetailScreen
		m.refreshEntryInList(msg.entry)
		return m.setStatusMessage(msg.status)

	case thumbnailMsg:
		// Терминал не отображает изображения; показываем сводку о данных.
		m.thumbnailInfo = fmt.Sprintf("Миниатюра получена: %d байт (%.30s...)", len(msg.dataURL), msg.dataURL)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.searchDebounce.Stop()
			m.pickerDebounce.Stop()
			return m, tea.Quit
		}
	}

	// == Делегирование обработчику текущего экрана ==
	switch m.state {
	case loginRegisterChoiceScreen:
		return m.updateLoginRegisterChoiceScreen(msg)
	case loginScreen:
		return m.updateLoginScreen(msg)
	case registerScreen:
		return m.updateRegisterScreen(msg)
	case vaultListScreen:
		return m.updateVaultListScreen(msg)
	case vaultFormScreen:
		return m.updateVaultFormScreen(msg)
	case entryListScreen:
		return m.updateEntryListScreen(msg)
	case entryDetailScreen:
		return m.updateEntryDetailScreen(msg)
	case entryFormScreen:
		return m.updateEntryFormScreen(msg)
	case fieldManagerScreen:
		return m.updateFieldManagerScreen(msg)
	case fieldFormScreen:
		return m.updateFieldFormScreen(msg)
	case relationPickerScreen:
		return m.updateRelationPickerScreen(msg)
	case coverInputScreen:
		return m.updateCoverInputScreen(msg)
	default:
		return m, nil
	}
}

// handleErrorMsg обрабатывает ошибку фоновой команды.
// Протухший токен возвращает на экран входа.
func (m *model) handleErrorMsg(msg errMsg) (tea.Model, tea.Cmd) {
	m.err = msg.err
	slog.Error("Ошибка фоновой операции", "state", m.state.String(), "error", msg.err)
	if errors.Is(msg.err, api.ErrAuthorization) {
		m.authToken = ""
		m.state = loginRegisterChoiceScreen
		return m.setStatusMessage("Сессия истекла, войдите заново")
	}
	return m.setStatusMessage("Ошибка: " + msg.err.Error())
}
