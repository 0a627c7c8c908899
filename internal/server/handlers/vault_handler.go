package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/huy1235588/Vaultrs/internal/server/middleware"
	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/models"
)

// VaultHandler обрабатывает HTTP-запросы, связанные с коллекциями.
type VaultHandler struct {
	vaultService services.VaultService
}

// NewVaultHandler создает новый экземпляр VaultHandler.
func NewVaultHandler(vs services.VaultService) *VaultHandler {
	return &VaultHandler{vaultService: vs}
}

// userID извлекает ID пользователя из контекста; false означает, что
// middleware аутентификации не отработал и ответ уже отправлен.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		log.Printf("[Handlers] Не удалось получить userID из контекста")
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
	return id, ok
}

// pathID извлекает числовой параметр маршрута chi.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeBadRequest(w, "Invalid "+name+" in path")
		return 0, false
	}
	return id, true
}

// Create обрабатывает POST запрос на создание коллекции.
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var params models.CreateVaultParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[VaultHandler:Create] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	vault, err := h.vaultService.Create(r.Context(), uid, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vault)
}

// Get обрабатывает GET запрос на получение коллекции по id.
func (h *VaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	vault, err := h.vaultService.Get(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vault)
}

// List обрабатывает GET запрос на список коллекций пользователя.
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	vaults, err := h.vaultService.List(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vaults)
}

// Update обрабатывает PATCH запрос с частичным патчем коллекции.
// Явный null в nullable-полях очищает их.
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	var params models.UpdateVaultParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Printf("[VaultHandler:Update] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	vault, err := h.vaultService.Update(r.Context(), uid, id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vault)
}

// Delete обрабатывает DELETE запрос на удаление коллекции со всем
// содержимым.
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "vaultID")
	if !ok {
		return
	}

	if err := h.vaultService.Delete(r.Context(), uid, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
