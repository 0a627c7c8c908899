package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/models"
)

// EntryHandler обрабатывает HTTP-запросы для записей коллекций.
type EntryHandler struct {
	entryService services.EntryService
}

// NewEntryHandler создает новый экземпляр EntryHandler.
func NewEntryHandler(es services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: es}
}

// Create обрабатывает POST запрос на создание записи. Метаданные
// валидируются против описаний полей коллекции.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var params models.CreateEntryParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[EntryHandler:Create] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.entryService.Create(r.Context(), uid, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Get обрабатывает GET запрос на получение записи по id.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	entry, err := h.entryService.Get(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// List обрабатывает GET запрос на страницу записей коллекции.
// Параметры page и limit опциональны.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", 0)

	result, err := h.entryService.List(r.Context(), uid, vaultID, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Update обрабатывает PATCH запрос с частичным патчем записи. Явный
// null очищает описание, обложку или метаданные.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	var params models.UpdateEntryParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[EntryHandler:Update] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.entryService.Update(r.Context(), uid, id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Delete обрабатывает DELETE запрос на удаление записи вместе с файлом
// обложки.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	if err := h.entryService.Delete(r.Context(), uid, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search обрабатывает GET запрос полнотекстового поиска по коллекции.
func (h *EntryHandler) Search(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", 0)

	result, err := h.entryService.Search(r.Context(), uid, vaultID, query, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// queryInt читает числовой query-параметр; нечисловые и отсутствующие
// значения дают fallback.
func queryInt(r *http.Request, name string, fallback int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
