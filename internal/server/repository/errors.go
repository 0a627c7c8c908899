package repository

import "errors"

// Кастомные ошибки репозиториев.
var (
	ErrUserNotFound  = errors.New("пользователь не найден")
	ErrUsernameTaken = errors.New("имя пользователя уже занято")
	ErrVaultNotFound = errors.New("коллекция не найдена")
	ErrEntryNotFound = errors.New("запись не найдена")
	ErrFieldNotFound = errors.New("описание поля не найдено")
)
