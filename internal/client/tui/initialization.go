package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/internal/client/store"
	"github.com/huy1235588/Vaultrs/models"
)

// Константы, используемые при инициализации.
const (
	initUserCharLimit     = 128
	initUserWidth         = 30
	initPasswordCharLimit = 156
	initNameCharLimit     = 256
	initDescCharLimit     = 1024
	initURLCharLimit      = 2048
	initPathCharLimit     = 4096
	initInputWidth        = 50
)

// initCredentialInputs инициализирует пару полей имя/пароль.
func initCredentialInputs() (textinput.Model, textinput.Model) {
	userInput := textinput.New()
	userInput.Placeholder = "Имя пользователя"
	userInput.CharLimit = initUserCharLimit
	userInput.Width = initUserWidth

	passInput := textinput.New()
	passInput.Placeholder = "Пароль"
	passInput.CharLimit = initPasswordCharLimit
	passInput.Width = initUserWidth
	passInput.EchoMode = textinput.EchoPassword
	return userInput, passInput
}

// initStyledList инициализирует компонент списка с общими настройками.
func initStyledList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, defaultListWidth, defaultListHeight)
	l.Title = title
	l.SetShowHelp(false) // Мы переопределяем справку
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false) // Фильтрация по серверному поиску, не по локальному фильтру
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initTextInput инициализирует одиночное текстовое поле.
func initTextInput(placeholder string, charLimit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = initInputWidth
	return ti
}

// initDocStyle инициализирует основной стиль документа.
func initDocStyle() lipgloss.Style {
	return lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal)
}

// initHelpTextMap инициализирует карту подсказок по экранам.
func initHelpTextMap() map[screenState]string {
	return map[screenState]string{
		loginRegisterChoiceScreen: "l - войти | r - зарегистрироваться | ctrl+c - выход",
		loginScreen:               "Tab - след. поле | Enter - войти | Esc - назад",
		registerScreen:            "Tab - след. поле | Enter - зарегистрироваться | Esc - назад",
		vaultListScreen:           "Enter - открыть | a - создать | e - изменить | d - удалить | q - выход",
		vaultFormScreen:           "Tab - след. поле | Enter - сохранить | Esc - отмена",
		entryListScreen:           "Enter - детали | / - поиск | n - еще | a - создать | e - изменить | d - удалить | f - поля | Esc - назад",
		entryDetailScreen:         "↑/↓ - строка | c - копировать | e - изменить | o - файл обложки | u - URL обложки | x - убрать | t - миниатюра | Esc - назад",
		entryFormScreen:           "Tab/↑/↓ - фокус | Space - переключить | ctrl+o - выбрать ссылку | ctrl+x - очистить | Enter - сохранить | Esc - отмена",
		fieldManagerScreen:        "a - создать | e - изменить | d - удалить | J/K - переместить | Esc - назад",
		fieldFormScreen:           "Tab - фокус | Space - переключить | Enter - сохранить | Esc - отмена",
		relationPickerScreen:      "Ввод - поиск | ↑/↓ - выбор | Enter - выбрать | Esc - отмена",
		coverInputScreen:          "Enter - применить | Esc - отмена",
	}
}

// initModel создает начальное состояние модели.
func initModel(serverURL string, debugMode bool, apiClient api.Client) model {
	loginUserInput, loginPassInput := initCredentialInputs()
	regUserInput, regPassInput := initCredentialInputs()
	loginUserInput.Focus()

	searchInput := initTextInput("Поиск по коллекции", initNameCharLimit)
	searchInput.Prompt = "/ "

	return model{
		state:                 loginRegisterChoiceScreen,
		serverURL:             serverURL,
		apiClient:             apiClient,
		vaults:                store.NewVaultStore(apiClient),
		fields:                store.NewFieldStore(apiClient),
		entries:               store.NewEntryStore(apiClient),
		searchDebounce:        store.NewDebouncer(store.DefaultSearchDebounce),
		pickerDebounce:        store.NewDebouncer(store.DefaultSearchDebounce),
		loginUsernameInput:    loginUserInput,
		loginPasswordInput:    loginPassInput,
		registerUsernameInput: regUserInput,
		registerPasswordInput: regPassInput,
		vaultList:             initStyledList("Коллекции"),
		vaultNameInput:        initTextInput("Название коллекции", initNameCharLimit),
		vaultDescInput:        initTextInput("Описание (необязательно)", initDescCharLimit),
		entryList:             initStyledList("Записи"),
		searchInput:           searchInput,
		fieldList:             initStyledList("Поля коллекции"),
		fieldNameInput:        initTextInput("Название поля", initNameCharLimit),
		fieldOptionsInput:     initTextInput("", initDescCharLimit),
		pickerList:            initStyledList("Выбор записи"),
		pickerInput:           initTextInput("Поиск записи", initNameCharLimit),
		coverInput:            initTextInput("", initPathCharLimit),
		formRelations:         map[int64]*models.RelationValue{},
		formRelationTitles:    map[int64]string{},
		formErrors:            map[string]string{},
		resolvedRelations:     map[string]models.ResolvedRelation{},
		debugMode:             debugMode,
		width:                 defaultListWidth,
		height:                defaultListHeight,
		docStyle:              initDocStyle(),
		helpTextMap:           initHelpTextMap(),
	}
}
