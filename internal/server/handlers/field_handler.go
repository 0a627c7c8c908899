package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/models"
)

// FieldHandler обрабатывает HTTP-запросы для описаний полей коллекции.
type FieldHandler struct {
	fieldService services.FieldService
}

// NewFieldHandler создает новый экземпляр FieldHandler.
func NewFieldHandler(fs services.FieldService) *FieldHandler {
	return &FieldHandler{fieldService: fs}
}

// Create обрабатывает POST запрос на добавление поля в коллекцию.
func (h *FieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var params models.CreateFieldParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[FieldHandler:Create] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	field, err := h.fieldService.Create(r.Context(), uid, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, field)
}

// Get обрабатывает GET запрос на получение описания поля по id.
func (h *FieldHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	field, err := h.fieldService.Get(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

// List обрабатывает GET запрос на список полей коллекции в порядке
// position.
func (h *FieldHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	fields, err := h.fieldService.List(r.Context(), uid, vaultID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// Update обрабатывает PATCH запрос с частичным патчем описания поля.
func (h *FieldHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	var params models.UpdateFieldParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[FieldHandler:Update] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	field, err := h.fieldService.Update(r.Context(), uid, id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

// Delete обрабатывает DELETE запрос на удаление описания поля.
// Данные записей при этом не трогаются, осиротевшие значения
// вычищаются лениво при следующем сохранении.
func (h *FieldHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	if err := h.fieldService.Delete(r.Context(), uid, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder обрабатывает PUT запрос с полным порядком полей коллекции.
func (h *FieldHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	var params models.ReorderFieldsParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[FieldHandler:Reorder] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	if err := h.fieldService.Reorder(r.Context(), uid, vaultID, params.IDs); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
