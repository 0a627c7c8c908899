package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateLoginRegisterChoiceScreen обрабатывает выбор входа или регистрации.
func (m *model) updateLoginRegisterChoiceScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "l", "L":
			m.state = loginScreen
			m.err = nil
			m.loginRegisterFocusedField = 0
			m.loginUsernameInput.Focus()
			m.loginPasswordInput.Blur()
			return m, textinput.Blink
		case "r", "R":
			m.state = registerScreen
			m.err = nil
			m.loginRegisterFocusedField = 0
			m.registerUsernameInput.Focus()
			m.registerPasswordInput.Blur()
			return m, textinput.Blink
		case keyQuit, keyEsc:
			return m, tea.Quit
		}
	}
	return m, nil
}

// viewLoginRegisterChoiceScreen отображает экран выбора действия.
func (m *model) viewLoginRegisterChoiceScreen() string {
	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	b.WriteString(titleStyle.Render("Vaultrs — ваши коллекции") + "\n\n")
	b.WriteString("Сервер: " + m.serverURL + "\n\n")
	b.WriteString("[L] Войти\n")
	b.WriteString("[R] Зарегистрироваться\n")
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
		b.WriteString("\n" + errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	return b.String()
}

// updateLoginScreen обрабатывает ввод данных для входа.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	loginAction := func() (tea.Model, tea.Cmd) {
		username := m.loginUsernameInput.Value()
		password := m.loginPasswordInput.Value()
		cmd := m.makeLoginCmd(username, password)
		newModel, statusCmd := m.setStatusMessage("Выполняется вход...")
		return newModel, tea.Batch(cmd, statusCmd)
	}

	return m.handleCredentialsInput(
		msg,
		&m.loginUsernameInput,
		&m.loginPasswordInput,
		&m.loginRegisterFocusedField,
		loginAction,
		loginRegisterChoiceScreen,
	)
}

// viewLoginScreen отображает экран ввода данных для входа.
func (m *model) viewLoginScreen() string {
	return m.viewCredentialsScreen(
		"Вход в учетную запись",
		"Нажмите Enter для входа, Esc для возврата",
		m.loginUsernameInput,
		m.loginPasswordInput,
	)
}

// updateRegisterScreen обрабатывает ввод данных для регистрации.
func (m *model) updateRegisterScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	registerAction := func() (tea.Model, tea.Cmd) {
		username := m.registerUsernameInput.Value()
		password := m.registerPasswordInput.Value()
		cmd := m.makeRegisterCmd(username, password)
		newModel, statusCmd := m.setStatusMessage("Выполняется регистрация...")
		return newModel, tea.Batch(cmd, statusCmd)
	}

	return m.handleCredentialsInput(
		msg,
		&m.registerUsernameInput,
		&m.registerPasswordInput,
		&m.loginRegisterFocusedField,
		registerAction,
		loginRegisterChoiceScreen,
	)
}

// viewRegisterScreen отображает экран регистрации.
func (m *model) viewRegisterScreen() string {
	return m.viewCredentialsScreen(
		"Регистрация новой учетной записи",
		"Нажмите Enter для регистрации, Esc для возврата",
		m.registerUsernameInput,
		m.registerPasswordInput,
	)
}

// viewCredentialsScreen отображает общий экран ввода данных (логин/пароль).
func (m *model) viewCredentialsScreen(title, hint string, usernameInput, passwordInput textinput.Model) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))

	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(usernameInput.View() + "\n")
	b.WriteString(passwordInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render(hint) + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	return b.String()
}

// handleLoginSuccessMsg завершает вход: сохраняет токен и грузит коллекции.
func (m *model) handleLoginSuccessMsg(msg loginSuccessMsg) (tea.Model, tea.Cmd) {
	m.authToken = msg.Token
	m.username = msg.Username
	m.err = nil
	m.apiClient.SetAuthToken(msg.Token)
	m.loginPasswordInput.SetValue("")
	m.state = vaultListScreen
	slog.Info("Вход выполнен", "username", msg.Username)
	_, statusCmd := m.setStatusMessage("Вход выполнен")
	return m, tea.Batch(m.loadVaultsCmd(), statusCmd)
}

// handleRegisterSuccessMsg переводит на экран входа после регистрации.
func (m *model) handleRegisterSuccessMsg(msg registerSuccessMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.state = loginScreen
	m.loginUsernameInput.SetValue(msg.Username)
	m.loginUsernameInput.Blur()
	m.loginPasswordInput.SetValue("")
	m.loginPasswordInput.Focus()
	m.loginRegisterFocusedField = 1
	slog.Info("Регистрация выполнена", "username", msg.Username)
	return m.setStatusMessage("Регистрация успешна, теперь войдите")
}

// handleAuthError показывает ошибку входа/регистрации, не покидая экран.
func (m *model) handleAuthError(prefix string, err error) (tea.Model, tea.Cmd) {
	m.err = err
	slog.Warn(prefix, "error", err)
	return m.setStatusMessage(prefix)
}
