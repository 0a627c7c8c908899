package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/models"
)

// RelationHandler обрабатывает HTTP-запросы для ссылок между записями.
type RelationHandler struct {
	relationService services.RelationService
}

// NewRelationHandler создает новый экземпляр RelationHandler.
func NewRelationHandler(rs services.RelationService) *RelationHandler {
	return &RelationHandler{relationService: rs}
}

// PickerSearch обрабатывает GET запрос кандидатов для relation-поля.
// При пустом q возвращаются недавно измененные записи коллекции.
func (h *RelationHandler) PickerSearch(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	vaultID, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 0)

	items, err := h.relationService.PickerSearch(r.Context(), uid, vaultID, query, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Resolve обрабатывает POST запрос пакетного разрешения ссылок.
func (h *RelationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}

	var params models.ResolveRelationsParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[RelationHandler:Resolve] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	resolved, err := h.relationService.Resolve(r.Context(), params.Refs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}
