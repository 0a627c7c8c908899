package models

import (
	"bytes"
	"encoding/json"
)

// Optional представляет значение частичного патча, различающее три состояния:
// поле отсутствует в JSON (не менять), поле равно null (очистить),
// поле содержит значение (установить).
//
// Для сериализации отсутствующих полей используется тэг `omitzero`
// в сочетании с методом IsZero.
type Optional[T any] struct {
	Present bool // Поле присутствовало в JSON
	Null    bool // Поле присутствовало и было равно null
	Value   T    // Значение (имеет смысл только при Present && !Null)
}

// Some создает Optional с установленным значением.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// Null создает Optional с явным null (очистка значения).
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

// Get возвращает значение и признак того, что оно установлено (не отсутствует и не null).
func (o Optional[T]) Get() (T, bool) {
	if !o.Present || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}

// IsZero сообщает encoding/json (тэг omitzero), что поле нужно пропустить.
func (o Optional[T]) IsZero() bool {
	return !o.Present
}

// MarshalJSON сериализует значение или null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON вызывается только если поле присутствует в JSON,
// поэтому Present всегда выставляется в true.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}
