package models

import "fmt"

// RelationValue — ссылка на запись другой (или той же) коллекции,
// хранится в метаданных поля типа relation.
type RelationValue struct {
	EntryID int64 `json:"entry_id"`
	VaultID int64 `json:"vault_id"`
}

// Key возвращает ключ вида "entry_id:vault_id" для пакетного разрешения.
func (r RelationValue) Key() string {
	return fmt.Sprintf("%d:%d", r.EntryID, r.VaultID)
}

// ResolveRelationsParams — пакетный запрос на разрешение ссылок.
type ResolveRelationsParams struct {
	Refs []RelationValue `json:"refs"`
}

// ResolvedRelation — отображаемое состояние ссылки. Для удаленных или
// перемещенных записей Exists=false и Title="[Deleted]".
type ResolvedRelation struct {
	EntryID        int64   `json:"entry_id"`
	VaultID        int64   `json:"vault_id"`
	Title          string  `json:"title"`
	Exists         bool    `json:"exists"`
	VaultName      *string `json:"vault_name,omitempty"`
	CoverImagePath *string `json:"cover_image_path,omitempty"`
}

// EntryPickerItem — элемент списка выбора записи при редактировании
// значения relation-поля.
type EntryPickerItem struct {
	ID        int64   `json:"id"`
	VaultID   int64   `json:"vault_id"`
	Title     string  `json:"title"`
	Subtitle  *string `json:"subtitle,omitempty"`
	Thumbnail *string `json:"thumbnail,omitempty"`
}
