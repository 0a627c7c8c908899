package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"

	"github.com/huy1235588/Vaultrs/internal/client/api"
)

const (
	statusMessageTimeout     = 2 * time.Second // Время отображения статусных сообщений
	helpStatusHeightOffset   = 2               // Высота строки помощи и статуса
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
)

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// setStatusMessage устанавливает статусное сообщение и запускает таймер для его очистки.
func (m *model) setStatusMessage(status string) (tea.Model, tea.Cmd) {
	m.savingStatus = status
	return m, clearStatusCmd(statusMessageTimeout)
}

// getMainContentView возвращает основное содержимое для текущего состояния.
func (m *model) getMainContentView() string {
	switch m.state {
	case loginRegisterChoiceScreen:
		return m.viewLoginRegisterChoiceScreen()
	case loginScreen:
		return m.viewLoginScreen()
	case registerScreen:
		return m.viewRegisterScreen()
	case vaultListScreen:
		return m.vaultList.View()
	case vaultFormScreen:
		return m.viewVaultFormScreen()
	case entryListScreen:
		return m.viewEntryListScreen()
	case entryDetailScreen:
		return m.viewEntryDetailScreen()
	case entryFormScreen:
		return m.viewEntryFormScreen()
	case fieldManagerScreen:
		return m.fieldList.View()
	case fieldFormScreen:
		return m.viewFieldFormScreen()
	case relationPickerScreen:
		return m.viewRelationPickerScreen()
	case coverInputScreen:
		return m.viewCoverInputScreen()
	default:
		return "Неизвестное состояние!"
	}
}

// getContentAndHelp возвращает основной контент и строку подсказки для текущего экрана.
func (m *model) getContentAndHelp() (string, string) {
	mainContent := m.getMainContentView()
	help, ok := m.helpTextMap[m.state]
	if !ok {
		help = "Unknown state"
	}
	return mainContent, help
}

// getDebugInfoString генерирует отладочную информацию.
func (m *model) getDebugInfoString() string {
	var debugInfo strings.Builder
	debugInfo.WriteString(fmt.Sprintf(" [State: %s]\n", m.state.String()))
	debugInfo.WriteString(fmt.Sprintf(" [URL: %s]\n", m.serverURL))
	debugInfo.WriteString(fmt.Sprintf(" [User: %s]\n", m.username))
	if id, ok := m.vaults.ActiveVaultID(); ok {
		debugInfo.WriteString(fmt.Sprintf(" [Vault: %d]\n", id))
	}
	debugInfo.WriteString(fmt.Sprintf(" [Entries: %d/%d, page %d, searching=%t]\n",
		len(m.entries.Entries()), m.entries.Total(), m.entries.Page(), m.entries.InSearchMode()))
	return debugInfo.String()
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	mainContent, help := m.getContentAndHelp()

	var footer strings.Builder
	if m.confirmationPrompt != "" {
		footer.WriteString("\n")
		footer.WriteString(m.confirmationPrompt)
	}
	if m.savingStatus != "" {
		footer.WriteString("\n")
		footer.WriteString(m.savingStatus)
	}
	if m.debugMode {
		footer.WriteString("\n\n---\nОтладка:\n")
		footer.WriteString(m.getDebugInfoString())
	}

	styledContent := m.docStyle.Render(mainContent)
	return fmt.Sprintf("%s\n%s%s", styledContent, help, footer.String())
}

// Start запускает TUI приложение. lockPath — файл блокировки,
// гарантирующий единственный запущенный экземпляр клиента.
func Start(serverURL, lockPath string, debugMode bool) {
	apiClient := api.NewHTTPClient(serverURL)
	slog.Info("API клиент инициализирован", "baseURL", serverURL)

	// Эксклюзивная блокировка: второй экземпляр не стартуем.
	fileLock := flock.New(lockPath)
	locked, flockErr := fileLock.TryLock()
	if flockErr != nil {
		slog.Error("Критическая ошибка при попытке блокировки файла", "lockPath", lockPath, "error", flockErr)
		fmt.Fprintf(os.Stderr, "Ошибка блокировки файла %s: %v\n", lockPath, flockErr)
		os.Exit(1)
	}
	if !locked {
		slog.Warn("Блокировка не получена: клиент уже запущен.", "lockPath", lockPath)
		fmt.Fprintln(os.Stderr, "Vaultrs уже запущен. Закройте другой экземпляр и повторите.")
		os.Exit(1)
	}
	defer func() {
		if errUnlock := fileLock.Unlock(); errUnlock != nil {
			slog.Error("Ошибка при снятии блокировки файла", "lockPath", lockPath, "error", errUnlock)
		}
	}()

	m := initModel(serverURL, debugMode, apiClient)

	// Используем AltScreen для корректной работы списков
	p := tea.NewProgram(&m, tea.WithAltScreen())
	// Дебаунсированные запросы доставляют ответы в цикл обновлений
	// через Program.Send (он потокобезопасен).
	m.send = p.Send

	if _, errRun := p.Run(); errRun != nil {
		slog.Error("Ошибка при запуске TUI", "error", errRun)
		fmt.Fprintf(os.Stderr, "Ошибка TUI: %v\n", errRun)
		return
	}
}
