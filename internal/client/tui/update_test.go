//nolint:testpackage // Тесты в том же пакете для доступа к приватным компонентам
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/internal/client/store"
	"github.com/huy1235588/Vaultrs/models"
)

// TestUpdate_WindowSize проверяет пересчет размеров компонентов.
func TestUpdate_WindowSize(t *testing.T) {
	m, _ := newTestModel(nil)

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	h, _ := m.docStyle.GetFrameSize()
	assert.Equal(t, 120-h, m.vaultList.Width())
}

// TestUpdate_CtrlCQuits проверяет выход по ctrl+c с любого экрана.
func TestUpdate_CtrlCQuits(t *testing.T) {
	m, _ := newTestModel(nil)
	m.state = entryListScreen

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// TestHandleErrorMsg_AuthExpired проверяет возврат на экран входа при
// протухшем токене.
func TestHandleErrorMsg_AuthExpired(t *testing.T) {
	m, _ := newTestModel(nil)
	m.state = entryListScreen
	m.authToken = "старый токен"

	_, cmd := m.Update(errMsg{err: api.ErrAuthorization})

	assert.Equal(t, loginRegisterChoiceScreen, m.state)
	assert.Empty(t, m.authToken)
	assert.Equal(t, "Сессия истекла, войдите заново", m.savingStatus)
	assert.NotNil(t, cmd)
}

// TestHandleErrorMsg_OtherErrorStaysOnScreen проверяет, что обычная
// ошибка показывается статусом, не меняя экран.
func TestHandleErrorMsg_OtherErrorStaysOnScreen(t *testing.T) {
	m, _ := newTestModel(nil)
	m.state = entryListScreen

	errBackend := errors.New("сервер недоступен")
	_, _ = m.Update(errMsg{err: errBackend})

	assert.Equal(t, entryListScreen, m.state)
	assert.Equal(t, errBackend, m.err)
	assert.Equal(t, "Ошибка: сервер недоступен", m.savingStatus)
}

// TestClearStatusMsg проверяет очистку статусного сообщения.
func TestClearStatusMsg(t *testing.T) {
	m, _ := newTestModel(nil)
	m.savingStatus = "Сохранение..."

	_, _ = m.Update(clearStatusMsg{})
	assert.Empty(t, m.savingStatus)
}

// TestHandleSearchFinishedMsg_StaleResponseDropped проверяет, что ответ
// на устаревший поисковый запрос отбрасывается.
func TestHandleSearchFinishedMsg_StaleResponseDropped(t *testing.T) {
	m, _ := newTestModel(nil)
	m.state = entryListScreen
	m.searchInput.SetValue("dune")
	m.entryList.SetItems([]list.Item{entryListItem{entry: models.Entry{ID: 1, Title: "старый"}}})

	_, _ = m.handleSearchFinishedMsg(searchFinishedMsg{query: "dun"})

	// Список не перечитан: старый элемент на месте
	require.Len(t, m.entryList.Items(), 1)
	item, ok := m.entryList.Items()[0].(entryListItem)
	require.True(t, ok)
	assert.Equal(t, "старый", item.entry.Title)
}

// TestTriggerSearch_DebouncedDelivery проверяет доставку результата
// поиска через send после паузы во вводе.
func TestTriggerSearch_DebouncedDelivery(t *testing.T) {
	client := &fakeClient{
		searchEntriesFn: func(_ context.Context, vaultID int64, query string, page, limit int64) (*models.SearchResult, error) {
			assert.Equal(t, int64(1), vaultID)
			assert.Equal(t, "dune", query)
			return &models.SearchResult{Entries: []models.Entry{{ID: 1, Title: "Dune"}}, Total: 1, Query: query}, nil
		},
	}
	m, sent := newTestModel(client)
	m.searchDebounce = store.NewDebouncer(time.Millisecond)

	// Первый запрос перекрывается вторым до истечения паузы
	m.triggerSearch(1, "dun")
	m.triggerSearch(1, "dune")

	require.Eventually(t, func() bool {
		return len(*sent) > 0
	}, time.Second, 5*time.Millisecond)

	require.Len(t, *sent, 1, "перекрытый запрос не должен уходить")
	msg, ok := (*sent)[0].(searchFinishedMsg)
	require.True(t, ok)
	assert.Equal(t, "dune", msg.query)
	assert.NoError(t, msg.err)
	assert.True(t, m.entries.InSearchMode())
}
