package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/huy1235588/Vaultrs/internal/server/services"
)

// ImageHandler обрабатывает HTTP-запросы для обложек записей.
type ImageHandler struct {
	imageService services.ImageService
}

// NewImageHandler создает новый экземпляр ImageHandler.
func NewImageHandler(is services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: is}
}

// UploadCover обрабатывает POST запрос с файлом обложки в теле.
// Формат определяется по содержимому, а не по имени файла.
func (h *ImageHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	log.Printf("[ImageHandler:UploadCover] Загрузка обложки для записи %d (filename=%s)",
		entryID, r.URL.Query().Get("filename"))

	entry, err := h.imageService.SetCoverFromUpload(r.Context(), uid, entryID, r.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// SetCoverURL обрабатывает PUT запрос с внешним URL обложки.
func (h *ImageHandler) SetCoverURL(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ImageHandler:SetCoverURL] Ошибка декодирования запроса: %v", err)
		writeBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.imageService.SetCoverFromURL(r.Context(), uid, entryID, req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Thumbnail обрабатывает GET запрос миниатюры обложки. Миниатюра
// возвращается как data URL в JSON-обертке.
func (h *ImageHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	thumbnail, err := h.imageService.Thumbnail(r.Context(), uid, entryID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Thumbnail string `json:"thumbnail"`
	}{Thumbnail: thumbnail})
}

// RemoveCover обрабатывает DELETE запрос на снятие обложки.
func (h *ImageHandler) RemoveCover(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	entry, err := h.imageService.RemoveCover(r.Context(), uid, entryID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
