package tui

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/huy1235588/Vaultrs/models"
)

// openEntryDetail переходит к деталям записи и запускает разрешение ссылок.
func (m *model) openEntryDetail(entry models.Entry) (tea.Model, tea.Cmd) {
	m.selectedEntry = &entry
	m.resolvedRelations = map[string]models.ResolvedRelation{}
	m.detailCursor = 0
	m.thumbnailInfo = ""
	m.state = entryDetailScreen

	refs := relationRefs(entry)
	cmds := []tea.Cmd{tea.ClearScreen}
	if len(refs) > 0 {
		cmds = append(cmds, m.resolveRelationsCmd(refs))
	}
	return m, tea.Batch(cmds...)
}

// relationRefs собирает все relation-значения из метаданных записи.
func relationRefs(entry models.Entry) []models.RelationValue {
	metadata, err := models.ParseMetadata(entry.Metadata)
	if err != nil {
		slog.Warn("Не удалось разобрать метаданные записи", "entryID", entry.ID, "error", err)
		return nil
	}
	var refs []models.RelationValue
	for _, v := range metadata {
		if v.Relation != nil {
			refs = append(refs, *v.Relation)
		}
	}
	return refs
}

// detailRows строит строки экрана деталей: стандартные атрибуты, затем
// пользовательские поля в порядке position, затем осиротевшие значения.
func (m *model) detailRows() []detailRow {
	entry := m.selectedEntry
	if entry == nil {
		return nil
	}

	rows := []detailRow{{label: "Название", value: entry.Title}}
	if entry.Description != nil && *entry.Description != "" {
		rows = append(rows, detailRow{label: "Описание", value: *entry.Description})
	}
	if entry.CoverImagePath != nil && *entry.CoverImagePath != "" {
		rows = append(rows, detailRow{label: "Обложка", value: *entry.CoverImagePath})
	}

	metadata, err := models.ParseMetadata(entry.Metadata)
	if err != nil {
		rows = append(rows, detailRow{label: "Метаданные", value: "", warn: "не удалось разобрать"})
		return rows
	}

	known := make(map[string]bool)
	for _, f := range m.fields.Fields() {
		key := strconv.FormatInt(f.ID, 10)
		known[key] = true
		v, ok := metadata[key]
		if !ok || v.IsEmpty() {
			continue
		}
		rows = append(rows, detailRow{label: f.Name, value: m.formatMetadataValue(f, v)})
	}

	// Осиротевшие значения: описание поля уже удалено, значение еще нет.
	var orphans []string
	for key := range metadata {
		if !known[key] {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	for _, key := range orphans {
		rows = append(rows, detailRow{
			label: "Поле #" + key,
			value: metadataValueString(metadata[key]),
			warn:  "поле больше не существует",
		})
	}
	return rows
}

// formatMetadataValue форматирует значение для отображения.
// Relation-значения подменяются разрешенной сводкой, если она уже пришла.
func (m *model) formatMetadataValue(field models.FieldDefinition, v models.MetadataValue) string {
	if field.FieldType == models.FieldTypeRelation && v.Relation != nil {
		if res, ok := m.resolvedRelations[v.Relation.Key()]; ok {
			if !res.Exists {
				return res.Title
			}
			if res.VaultName != nil {
				return fmt.Sprintf("%s (%s)", res.Title, *res.VaultName)
			}
			return res.Title
		}
		return fmt.Sprintf("запись #%d…", v.Relation.EntryID)
	}
	if field.FieldType == models.FieldTypeBoolean && v.Boolean != nil {
		if *v.Boolean {
			return "да"
		}
		return "нет"
	}
	return metadataValueString(v)
}

// metadataValueString печатает значение без знания типа поля.
func metadataValueString(v models.MetadataValue) string {
	switch {
	case v.Text != nil:
		return *v.Text
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case v.Boolean != nil:
		return strconv.FormatBool(*v.Boolean)
	case v.Relation != nil:
		return fmt.Sprintf("запись #%d из коллекции %d", v.Relation.EntryID, v.Relation.VaultID)
	}
	return ""
}

// updateEntryDetailScreen обрабатывает сообщения для экрана деталей.
func (m *model) updateEntryDetailScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey || m.selectedEntry == nil {
		return m, nil
	}

	rows := m.detailRows()
	switch keyMsg.String() {
	case keyEsc:
		m.selectedEntry = nil
		m.thumbnailInfo = ""
		m.state = entryListScreen
		return m, tea.ClearScreen
	case keyUp, "k":
		if m.detailCursor > 0 {
			m.detailCursor--
		}
	case keyDown, "j":
		if m.detailCursor < len(rows)-1 {
			m.detailCursor++
		}
	case "c":
		// Копирование значения выбранной строки в буфер обмена
		if m.detailCursor < len(rows) {
			row := rows[m.detailCursor]
			if err := clipboard.WriteAll(row.value); err != nil {
				slog.Error("Ошибка копирования в буфер обмена", "error", err)
				return m.setStatusMessage("Не удалось скопировать: " + err.Error())
			}
			return m.setStatusMessage(fmt.Sprintf("Скопировано: %s", row.label))
		}
	case keyEdit:
		entry := *m.selectedEntry
		return m.openEntryForm(&entry)
	case "o":
		m.openCoverInput(coverModeFile)
		return m, nil
	case "u":
		m.openCoverInput(coverModeURL)
		return m, nil
	case "x":
		newModel, statusCmd := m.setStatusMessage("Удаление обложки...")
		return newModel, tea.Batch(m.removeCoverCmd(m.selectedEntry.ID), statusCmd)
	case "t":
		newModel, statusCmd := m.setStatusMessage("Запрос миниатюры...")
		return newModel, tea.Batch(m.thumbnailCmd(m.selectedEntry.ID), statusCmd)
	}
	return m, nil
}

// viewEntryDetailScreen отображает детали записи.
func (m *model) viewEntryDetailScreen() string {
	entry := m.selectedEntry
	if entry == nil {
		return "Запись не выбрана"
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(entry.Title) + "\n\n")

	for i, row := range m.detailRows() {
		cursor := "  "
		if i == m.detailCursor {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s: %s", cursor, labelStyle.Render(row.label), row.value)
		if row.warn != "" {
			line += " " + warnStyle.Render("["+row.warn+"]")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Создано: %s | Обновлено: %s", entry.CreatedAt, entry.UpdatedAt)) + "\n")
	if m.thumbnailInfo != "" {
		b.WriteString(m.thumbnailInfo + "\n")
	}
	return b.String()
}

// openCoverInput подготавливает экран ввода пути/URL обложки.
func (m *model) openCoverInput(mode coverInputMode) {
	m.coverMode = mode
	m.coverInput.SetValue("")
	if mode == coverModeURL {
		m.coverInput.Placeholder = "https://example.com/cover.jpg"
	} else {
		m.coverInput.Placeholder = "/путь/к/файлу.png"
	}
	m.coverInput.Focus()
	m.prevState = m.state
	m.state = coverInputScreen
}

// updateCoverInputScreen обрабатывает ввод пути/URL обложки.
func (m *model) updateCoverInputScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.coverInput.Blur()
			m.state = m.prevState
			return m, tea.ClearScreen
		case keyEnter:
			value := strings.TrimSpace(m.coverInput.Value())
			if value == "" || m.selectedEntry == nil {
				return m, nil
			}
			m.coverInput.Blur()
			var cmd tea.Cmd
			if m.coverMode == coverModeURL {
				cmd = m.setCoverURLCmd(m.selectedEntry.ID, value)
			} else {
				cmd = m.uploadCoverCmd(m.selectedEntry.ID, value)
			}
			newModel, statusCmd := m.setStatusMessage("Сохранение обложки...")
			return newModel, tea.Batch(cmd, statusCmd)
		}
	}

	var cmd tea.Cmd
	m.coverInput, cmd = m.coverInput.Update(msg)
	return m, cmd
}

// viewCoverInputScreen отображает экран ввода обложки.
func (m *model) viewCoverInputScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	title := "Загрузка обложки из файла"
	if m.coverMode == coverModeURL {
		title = "Обложка по внешнему URL"
	}
	return titleStyle.Render(title) + "\n\n" + m.coverInput.View() + "\n"
}
