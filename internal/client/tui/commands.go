package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/huy1235588/Vaultrs/models"
)

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// --- Сообщения и команды для аутентификации --- //

type loginSuccessMsg struct {
	Token    string
	Username string
}

type registerSuccessMsg struct {
	Username string
}

// LoginError оборачивает ошибку входа, чтобы отличать ее в Update.
type LoginError struct {
	err error
}

func (e LoginError) Error() string {
	return e.err.Error()
}

// RegisterError оборачивает ошибку регистрации.
type RegisterError struct {
	err error
}

func (e RegisterError) Error() string {
	return e.err.Error()
}

// makeLoginCmd выполняет вход через API.
func (m *model) makeLoginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		token, err := m.apiClient.Login(ctx, username, password)
		if err != nil {
			// Возвращаем исходную ошибку API клиента без добавления контекста
			return LoginError{err: err}
		}
		return loginSuccessMsg{Token: token, Username: username}
	}
}

// makeRegisterCmd выполняет регистрацию через API.
func (m *model) makeRegisterCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.apiClient.Register(ctx, username, password); err != nil {
			return RegisterError{err: err}
		}
		return registerSuccessMsg{Username: username}
	}
}

// --- Сообщения и команды для коллекций --- //

// vaultsLoadedMsg сигнализирует, что VaultStore обновил список коллекций.
type vaultsLoadedMsg struct{}

// vaultOpenedMsg сигнализирует, что активная коллекция выбрана и
// зависимые сторы (поля, записи) загружены заново.
type vaultOpenedMsg struct {
	vaultID int64
}

// vaultSavedMsg сигнализирует об успешном создании/изменении коллекции.
type vaultSavedMsg struct {
	created bool
}

// vaultDeletedMsg сигнализирует об удалении коллекции.
type vaultDeletedMsg struct{}

// loadVaultsCmd загружает список коллекций пользователя.
func (m *model) loadVaultsCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.vaults.FetchVaults(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return vaultsLoadedMsg{}
	}
}

// openVaultCmd делает коллекцию активной и перечитывает ее поля и записи.
// Порядок важен: сначала сбрасываются зависимые сторы, затем идут запросы.
func (m *model) openVaultCmd(vaultID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		m.vaults.SetActiveVault(vaultID)
		m.fields.Reset()
		m.entries.Reset()
		if err := m.fields.FetchFields(ctx, vaultID); err != nil {
			return errMsg{err: err}
		}
		if err := m.entries.FetchEntries(ctx, vaultID); err != nil {
			return errMsg{err: err}
		}
		return vaultOpenedMsg{vaultID: vaultID}
	}
}

// saveVaultCmd создает или переименовывает коллекцию.
func (m *model) saveVaultCmd(id int64, name, description string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if id == 0 {
			params := models.CreateVaultParams{Name: name}
			if description != "" {
				params.Description = &description
			}
			if _, err := m.vaults.CreateVault(ctx, params); err != nil {
				return errMsg{err: err}
			}
			return vaultSavedMsg{created: true}
		}
		params := models.UpdateVaultParams{Name: models.Some(name)}
		if description != "" {
			params.Description = models.Some(description)
		} else {
			params.Description = models.Null[string]()
		}
		if _, err := m.vaults.UpdateVault(ctx, id, params); err != nil {
			return errMsg{err: err}
		}
		return vaultSavedMsg{}
	}
}

// deleteVaultCmd удаляет коллекцию со всем содержимым.
func (m *model) deleteVaultCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.vaults.DeleteVault(context.Background(), id); err != nil {
			return errMsg{err: err}
		}
		return vaultDeletedMsg{}
	}
}

// --- Сообщения и команды для записей --- //

// entriesReloadedMsg сигнализирует, что EntryStore обновил видимый список.
type entriesReloadedMsg struct{}

// entriesAppendedMsg сигнализирует о подгрузке следующей страницы.
type entriesAppendedMsg struct{}

// searchFinishedMsg доставляет результат дебаунсированного поиска.
// Query нужен, чтобы отбросить устаревшие ответы.
type searchFinishedMsg struct {
	query string
	err   error
}

// entrySavedMsg сигнализирует об успешном создании/изменении записи.
type entrySavedMsg struct {
	entry   *models.Entry
	created bool
}

// entryDeletedMsg сигнализирует об удалении записи.
type entryDeletedMsg struct{}

// loadMoreEntriesCmd подгружает следующую страницу списка записей.
func (m *model) loadMoreEntriesCmd(vaultID int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.entries.LoadMoreEntries(context.Background(), vaultID); err != nil {
			return errMsg{err: err}
		}
		return entriesAppendedMsg{}
	}
}

// reloadEntriesCmd перечитывает первую страницу списка записей.
func (m *model) reloadEntriesCmd(vaultID int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.entries.FetchEntries(context.Background(), vaultID); err != nil {
			return errMsg{err: err}
		}
		return entriesReloadedMsg{}
	}
}

// triggerSearch планирует дебаунсированный поиск. Ответ приходит не как
// tea.Cmd, а через send: таймер живет дольше одного цикла Update.
func (m *model) triggerSearch(vaultID int64, query string) {
	m.searchDebounce.Trigger(func() {
		err := m.entries.SearchEntries(context.Background(), vaultID, query)
		if m.send != nil {
			m.send(searchFinishedMsg{query: query, err: err})
		}
	})
}

// saveEntryCmd создает или обновляет запись.
func (m *model) saveEntryCmd(id int64, title string, description *string, metadata *string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if id == 0 {
			vaultID, ok := m.vaults.ActiveVaultID()
			if !ok {
				return errMsg{err: fmt.Errorf("не выбрана активная коллекция")}
			}
			entry, err := m.entries.CreateEntry(ctx, models.CreateEntryParams{
				VaultID:     vaultID,
				Title:       title,
				Description: description,
				Metadata:    metadata,
			})
			if err != nil {
				return errMsg{err: err}
			}
			return entrySavedMsg{entry: entry, created: true}
		}
		params := models.UpdateEntryParams{Title: models.Some(title)}
		if description != nil {
			params.Description = models.Some(*description)
		} else {
			params.Description = models.Null[string]()
		}
		if metadata != nil {
			params.Metadata = models.Some(*metadata)
		} else {
			params.Metadata = models.Null[string]()
		}
		entry, err := m.entries.UpdateEntry(ctx, id, params)
		if err != nil {
			return errMsg{err: err}
		}
		return entrySavedMsg{entry: entry}
	}
}

// deleteEntryCmd удаляет запись.
func (m *model) deleteEntryCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.entries.DeleteEntry(context.Background(), id); err != nil {
			return errMsg{err: err}
		}
		return entryDeletedMsg{}
	}
}

// --- Сообщения и команды для полей --- //

// fieldsChangedMsg сигнализирует, что FieldStore обновил набор полей.
type fieldsChangedMsg struct {
	status string
}

// saveFieldCmd создает или изменяет описание поля.
func (m *model) saveFieldCmd(id int64, params models.CreateFieldParams) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if id == 0 {
			if _, err := m.fields.CreateField(ctx, params); err != nil {
				return errMsg{err: err}
			}
			return fieldsChangedMsg{status: "Поле создано"}
		}
		update := models.UpdateFieldParams{
			Name:     models.Some(params.Name),
			Required: models.Some(params.Required),
		}
		if params.Options != nil {
			update.Options = models.Some(*params.Options)
		} else {
			update.Options = models.Null[models.FieldOptions]()
		}
		if _, err := m.fields.UpdateField(ctx, id, update); err != nil {
			return errMsg{err: err}
		}
		return fieldsChangedMsg{status: "Поле обновлено"}
	}
}

// deleteFieldCmd удаляет описание поля. Значения в записях остаются
// осиротевшими и вычищаются сервером лениво при следующей записи.
func (m *model) deleteFieldCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.fields.DeleteField(context.Background(), id); err != nil {
			return errMsg{err: err}
		}
		return fieldsChangedMsg{status: "Поле удалено"}
	}
}

// reorderFieldsCmd атомарно переставляет поля по полному списку id.
func (m *model) reorderFieldsCmd(vaultID int64, ids []int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.fields.ReorderFields(context.Background(), vaultID, ids); err != nil {
			return errMsg{err: err}
		}
		return fieldsChangedMsg{status: "Порядок сохранен"}
	}
}

// --- Сообщения и команды для relation-полей --- //

// relationsResolvedMsg доставляет отображаемые сводки ссылок.
type relationsResolvedMsg struct {
	resolved map[string]models.ResolvedRelation
}

// pickerResultsMsg доставляет кандидатов для выбора relation-значения.
type pickerResultsMsg struct {
	query string
	items []models.EntryPickerItem
}

// resolveRelationsCmd пакетно разрешает ссылки записи для экрана деталей.
func (m *model) resolveRelationsCmd(refs []models.RelationValue) tea.Cmd {
	return func() tea.Msg {
		if len(refs) == 0 {
			return relationsResolvedMsg{resolved: map[string]models.ResolvedRelation{}}
		}
		resolved, err := m.apiClient.ResolveRelations(context.Background(), refs)
		if err != nil {
			return errMsg{err: err}
		}
		return relationsResolvedMsg{resolved: resolved}
	}
}

// triggerPickerSearch планирует дебаунсированный поиск кандидатов.
func (m *model) triggerPickerSearch(vaultID int64, query string) {
	m.pickerDebounce.Trigger(func() {
		items, err := m.apiClient.SearchEntriesForRelation(context.Background(), vaultID, query, pickerPageLimit)
		if m.send != nil {
			if err != nil {
				m.send(errMsg{err: err})
				return
			}
			m.send(pickerResultsMsg{query: query, items: items})
		}
	})
}

// pickerSearchCmd выполняет немедленный поиск кандидатов (при открытии экрана).
func (m *model) pickerSearchCmd(vaultID int64, query string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.apiClient.SearchEntriesForRelation(context.Background(), vaultID, query, pickerPageLimit)
		if err != nil {
			return errMsg{err: err}
		}
		return pickerResultsMsg{query: query, items: items}
	}
}

// --- Сообщения и команды для обложек --- //

// coverUpdatedMsg доставляет запись с обновленной обложкой.
type coverUpdatedMsg struct {
	entry  *models.Entry
	status string
}

// thumbnailMsg доставляет миниатюру обложки (data URL).
type thumbnailMsg struct {
	dataURL string
}

// uploadCoverCmd читает локальный файл и загружает его как обложку.
func (m *model) uploadCoverCmd(entryID int64, path string) tea.Cmd {
	return func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return errMsg{err: fmt.Errorf("не удалось открыть файл: %w", err)}
		}
		defer file.Close()

		entry, err := m.apiClient.UploadCoverImage(context.Background(), entryID, filepath.Base(path), file)
		if err != nil {
			return errMsg{err: err}
		}
		slog.Info("Обложка загружена", "entryID", entryID, "file", path)
		return coverUpdatedMsg{entry: entry, status: "Обложка загружена"}
	}
}

// setCoverURLCmd сохраняет внешний URL обложки как есть.
func (m *model) setCoverURLCmd(entryID int64, coverURL string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.apiClient.SetCoverURL(context.Background(), entryID, coverURL)
		if err != nil {
			return errMsg{err: err}
		}
		return coverUpdatedMsg{entry: entry, status: "Обложка сохранена"}
	}
}

// removeCoverCmd убирает обложку записи.
func (m *model) removeCoverCmd(entryID int64) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.apiClient.RemoveCover(context.Background(), entryID)
		if err != nil {
			return errMsg{err: err}
		}
		return coverUpdatedMsg{entry: entry, status: "Обложка убрана"}
	}
}

// thumbnailCmd запрашивает миниатюру обложки.
func (m *model) thumbnailCmd(entryID int64) tea.Cmd {
	return func() tea.Msg {
		dataURL, err := m.apiClient.GetThumbnail(context.Background(), entryID)
		if err != nil {
			return errMsg{err: err}
		}
		return thumbnailMsg{dataURL: dataURL}
	}
}
