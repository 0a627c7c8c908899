package services

import (
	"errors"
	"fmt"
)

// Коды ошибок, отдаваемые клиенту в теле ответа {code, message}.
const (
	CodeDatabaseError = "DATABASE_ERROR"
	CodeVaultNotFound = "VAULT_NOT_FOUND"
	CodeEntryNotFound = "ENTRY_NOT_FOUND"
	CodeFieldNotFound = "FIELD_NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError — ошибка сервисного слоя, сериализуемая в {code, message}.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError создает ошибку валидации входных данных.
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Code: CodeValidation, Message: "Validation error: " + fmt.Sprintf(format, args...)}
}

// NewVaultNotFound создает ошибку отсутствующей коллекции.
func NewVaultNotFound(id int64) *AppError {
	return &AppError{Code: CodeVaultNotFound, Message: fmt.Sprintf("Vault not found: %d", id)}
}

// NewEntryNotFound создает ошибку отсутствующей записи.
func NewEntryNotFound(id int64) *AppError {
	return &AppError{Code: CodeEntryNotFound, Message: fmt.Sprintf("Entry not found: %d", id)}
}

// NewFieldNotFound создает ошибку отсутствующего описания поля.
func NewFieldNotFound(id int64) *AppError {
	return &AppError{Code: CodeFieldNotFound, Message: fmt.Sprintf("Field definition not found: %d", id)}
}

// NewDatabaseError оборачивает ошибку уровня БД.
func NewDatabaseError(err error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: fmt.Sprintf("Database error: %v", err)}
}

// NewInternalError оборачивает непредвиденную ошибку.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: fmt.Sprintf("Internal error: %v", err)}
}

// AsAppError извлекает AppError из цепочки ошибок.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
