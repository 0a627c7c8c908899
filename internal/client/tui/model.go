package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/internal/client/store"
	"github.com/huy1235588/Vaultrs/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	loginRegisterChoiceScreen screenState = iota // Экран выбора "Войти или Зарегистрироваться?"
	loginScreen                                  // Экран ввода данных для входа
	registerScreen                               // Экран ввода данных для регистрации
	vaultListScreen                              // Экран списка коллекций
	vaultFormScreen                              // Экран создания/переименования коллекции
	entryListScreen                              // Экран списка записей (просмотр + поиск)
	entryDetailScreen                            // Экран деталей записи
	entryFormScreen                              // Экран создания/редактирования записи
	fieldManagerScreen                           // Экран управления полями коллекции
	fieldFormScreen                              // Экран создания/редактирования поля
	relationPickerScreen                         // Экран выбора записи для relation-поля
	coverInputScreen                             // Экран ввода пути/URL обложки
)

// String возвращает имя состояния для отладочной строки.
func (s screenState) String() string {
	names := map[screenState]string{
		loginRegisterChoiceScreen: "loginRegisterChoice",
		loginScreen:               "login",
		registerScreen:            "register",
		vaultListScreen:           "vaultList",
		vaultFormScreen:           "vaultForm",
		entryListScreen:           "entryList",
		entryDetailScreen:         "entryDetail",
		entryFormScreen:           "entryForm",
		fieldManagerScreen:        "fieldManager",
		fieldFormScreen:           "fieldForm",
		relationPickerScreen:      "relationPicker",
		coverInputScreen:          "coverInput",
	}
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("screenState(%d)", int(s))
}

// Режимы экрана ввода обложки.
type coverInputMode int

const (
	coverModeFile coverInputMode = iota // Загрузка локального файла
	coverModeURL                        // Сохранение внешнего URL
)

// Константы для TUI.
const (
	defaultListWidth  = 80 // Стандартная ширина терминала для списка
	defaultListHeight = 24 // Стандартная высота терминала для списка
	inputWidthOffset  = 4  // Отступ для полей ввода

	keyEnter    = "enter"
	keyQuit     = "q"
	keyEsc      = "esc"
	keyEdit     = "e"
	keyAdd      = "a"
	keyDelete   = "d"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keySpace    = " "
)

// vaultItem представляет коллекцию в списке.
// Реализует интерфейс list.Item.
type vaultItem struct {
	vault models.Vault
}

func (i vaultItem) Title() string {
	if i.vault.Icon != nil && *i.vault.Icon != "" {
		return fmt.Sprintf("%s %s", *i.vault.Icon, i.vault.Name)
	}
	return i.vault.Name
}

func (i vaultItem) Description() string {
	if i.vault.Description != nil && *i.vault.Description != "" {
		return *i.vault.Description
	}
	return "Без описания"
}

func (i vaultItem) FilterValue() string { return i.vault.Name }

// entryListItem представляет запись в списке записей.
type entryListItem struct {
	entry models.Entry
}

func (i entryListItem) Title() string { return i.entry.Title }

func (i entryListItem) Description() string {
	var parts []string
	if i.entry.Description != nil && *i.entry.Description != "" {
		parts = append(parts, *i.entry.Description)
	}
	if i.entry.CoverImagePath != nil && *i.entry.CoverImagePath != "" {
		parts = append(parts, "[обложка]")
	}
	return strings.Join(parts, " ")
}

func (i entryListItem) FilterValue() string { return i.entry.Title }

// fieldItem представляет описание поля в менеджере полей.
type fieldItem struct {
	field models.FieldDefinition
}

func (i fieldItem) Title() string {
	if i.field.Required {
		return i.field.Name + " *"
	}
	return i.field.Name
}

func (i fieldItem) Description() string {
	desc := string(i.field.FieldType)
	if o := i.field.Options; o != nil {
		switch i.field.FieldType {
		case models.FieldTypeSelect:
			desc += ": " + strings.Join(o.Choices, ", ")
		case models.FieldTypeNumber:
			if o.Min != nil || o.Max != nil {
				desc += fmt.Sprintf(" [%s..%s]", floatOrDash(o.Min), floatOrDash(o.Max))
			}
		case models.FieldTypeRelation:
			if o.TargetVaultID != nil {
				desc += fmt.Sprintf(" → коллекция %d", *o.TargetVaultID)
			}
		case models.FieldTypeText:
			if o.MaxLength != nil {
				desc += fmt.Sprintf(" (до %d символов)", *o.MaxLength)
			}
		}
	}
	return desc
}

func (i fieldItem) FilterValue() string { return i.field.Name }

// pickerItem представляет кандидата в списке выбора relation-поля.
type pickerItem struct {
	item models.EntryPickerItem
}

func (i pickerItem) Title() string { return i.item.Title }

func (i pickerItem) Description() string {
	if i.item.Subtitle != nil {
		return *i.item.Subtitle
	}
	return ""
}

func (i pickerItem) FilterValue() string { return i.item.Title }

// Структура для сообщения об ошибке.
type errMsg struct {
	err error
}

// Сообщение для очистки статуса.
type clearStatusMsg struct{}

// detailRow — одна строка на экране деталей записи (для отображения и копирования).
type detailRow struct {
	label string
	value string
	warn  string // Пометка проблемы, например для осиротевших значений
}

// model представляет состояние TUI приложения.
type model struct {
	state     screenState
	prevState screenState // Предыдущее состояние (для возврата по Esc)

	serverURL string
	apiClient api.Client
	vaults    *store.VaultStore
	fields    *store.FieldStore
	entries   *store.EntryStore

	// Дебаунс поисковых запросов; результат доставляется в цикл
	// обновлений через send (Program.Send).
	searchDebounce *store.Debouncer
	pickerDebounce *store.Debouncer
	send           func(tea.Msg)

	authToken string
	username  string // Имя вошедшего пользователя (для заголовка)

	// Экраны входа/регистрации
	loginUsernameInput        textinput.Model
	loginPasswordInput        textinput.Model
	registerUsernameInput     textinput.Model
	registerPasswordInput     textinput.Model
	loginRegisterFocusedField int

	// Список и форма коллекций
	vaultList             list.Model
	vaultNameInput        textinput.Model
	vaultDescInput        textinput.Model
	vaultFormFocusedField int
	editingVaultID        int64 // 0 — создание новой коллекции

	// Список записей и поиск
	entryList    list.Model
	searchInput  textinput.Model
	searchActive bool // Фокус на строке поиска

	// Детали записи
	selectedEntry     *models.Entry
	resolvedRelations map[string]models.ResolvedRelation
	detailCursor      int    // Выбранная строка для копирования
	thumbnailInfo     string // Сводка о полученной миниатюре

	// Форма записи
	formTitleInput     textinput.Model
	formDescInput      textinput.Model
	formInputs         []textinput.Model        // По одному на описание поля, в порядке position
	formFields         []models.FieldDefinition // Снимок описаний на момент открытия формы
	formRelations      map[int64]*models.RelationValue
	formRelationTitles map[int64]string
	formErrors         map[string]string        // Ключ — строковый id поля либо "title"
	formFocused        int                      // 0 — title, 1 — description, 2+i — поле i
	editingEntryID     int64                    // 0 — создание новой записи

	// Менеджер и форма полей
	fieldList         list.Model
	fieldNameInput    textinput.Model
	fieldOptionsInput textinput.Model
	fieldTypeIndex    int   // Индекс в fieldTypeOrder (только при создании)
	fieldRequired     bool
	fieldFormFocused  int
	editingFieldID    int64 // 0 — создание нового поля
	editingFieldType  models.FieldType
	fieldFormError    string

	// Выбор записи для relation-поля
	pickerList        list.Model
	pickerInput       textinput.Model
	pickerFieldID     int64
	pickerTargetVault int64

	// Ввод обложки
	coverInput textinput.Model
	coverMode  coverInputMode

	// Подтверждение удаления
	confirmationPrompt string
	pendingDeleteID    int64

	err          error
	savingStatus string
	debugMode    bool
	width        int
	height       int
	docStyle     lipgloss.Style
	helpTextMap  map[screenState]string
}

// fieldTypeOrder — порядок перебора типов на форме создания поля.
var fieldTypeOrder = []models.FieldType{
	models.FieldTypeText,
	models.FieldTypeNumber,
	models.FieldTypeDate,
	models.FieldTypeURL,
	models.FieldTypeBoolean,
	models.FieldTypeSelect,
	models.FieldTypeRelation,
}

func floatOrDash(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}
