package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/huy1235588/Vaultrs/internal/server/services"
)

// writeJSON сериализует ответ в JSON с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Handlers] Ошибка кодирования JSON-ответа: %v", err)
	}
}

// writeServiceError отдает ошибку сервисного слоя в теле {code, message}
// с HTTP-статусом по коду ошибки.
func writeServiceError(w http.ResponseWriter, err error) {
	appErr, ok := services.AsAppError(err)
	if !ok {
		appErr = services.NewInternalError(err)
	}
	writeJSON(w, statusForCode(appErr.Code), appErr)
}

func statusForCode(code string) int {
	switch code {
	case services.CodeValidation:
		return http.StatusBadRequest
	case services.CodeVaultNotFound, services.CodeEntryNotFound, services.CodeFieldNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeBadRequest отдает ошибку разбора запроса до обращения к сервисам.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, &services.AppError{
		Code:    services.CodeValidation,
		Message: message,
	})
}
