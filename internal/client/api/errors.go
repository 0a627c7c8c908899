package api

import "errors"

// ErrAuthorization сигнализирует об ошибке авторизации (401).
var ErrAuthorization = errors.New("ошибка авторизации")

// Коды ошибок, которые возвращает бэкенд.
const (
	CodeDatabaseError = "DATABASE_ERROR"
	CodeVaultNotFound = "VAULT_NOT_FOUND"
	CodeEntryNotFound = "ENTRY_NOT_FOUND"
	CodeFieldNotFound = "FIELD_NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
)

// Error — типизированная ошибка бэкенда. Возвращается вызывающему
// без интерпретации; хранилища пробрасывают ее наверх как есть.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// IsCode сообщает, что ошибка является ошибкой бэкенда с данным кодом.
func IsCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
