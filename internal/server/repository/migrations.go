package repository

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// migration — один шаг схемы. Применяется ровно один раз; факт
// применения фиксируется в таблице _migrations по имени.
type migration struct {
	name string
	sql  string
}

// Миграции применяются строго по порядку.
var migrations = []migration{
	{
		name: "001_create_users",
		sql: `
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
		);
		`,
	},
	{
		name: "002_create_vaults",
		sql: `
		CREATE TABLE IF NOT EXISTS vaults (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			description TEXT,
			icon        TEXT,
			color       TEXT,
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_vaults_user_id ON vaults(user_id);
		`,
	},
	{
		name: "003_create_entries",
		sql: `
		CREATE TABLE IF NOT EXISTS entries (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			vault_id         INTEGER NOT NULL REFERENCES vaults(id) ON DELETE CASCADE,
			title            TEXT NOT NULL,
			description      TEXT,
			metadata         TEXT,
			cover_image_path TEXT,
			created_at       TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at       TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_entries_vault_id ON entries(vault_id);
		CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
		CREATE INDEX IF NOT EXISTS idx_entries_cover_image ON entries(cover_image_path);
		`,
	},
	{
		name: "004_create_field_definitions",
		sql: `
		CREATE TABLE IF NOT EXISTS field_definitions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			vault_id    INTEGER NOT NULL REFERENCES vaults(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			field_type  TEXT NOT NULL CHECK (field_type IN ('text', 'number', 'date', 'url', 'boolean', 'select', 'relation')),
			options     TEXT,
			position    INTEGER NOT NULL DEFAULT 0,
			required    INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at  TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(vault_id, name)
		);

		CREATE INDEX IF NOT EXISTS idx_field_definitions_vault ON field_definitions(vault_id);
		`,
	},
	{
		name: "005_create_entries_fts",
		sql: `
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			title,
			description,
			content='entries',
			content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS entries_fts_insert AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(rowid, title, description)
			VALUES (new.id, new.title, COALESCE(new.description, ''));
		END;

		CREATE TRIGGER IF NOT EXISTS entries_fts_delete AFTER DELETE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, title, description)
			VALUES ('delete', old.id, old.title, COALESCE(old.description, ''));
		END;

		CREATE TRIGGER IF NOT EXISTS entries_fts_update AFTER UPDATE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, title, description)
			VALUES ('delete', old.id, old.title, COALESCE(old.description, ''));
			INSERT INTO entries_fts(rowid, title, description)
			VALUES (new.id, new.title, COALESCE(new.description, ''));
		END;
		`,
	},
	{
		name: "006_populate_entries_fts",
		sql: `
		INSERT INTO entries_fts(rowid, title, description)
		SELECT id, title, COALESCE(description, '') FROM entries
		WHERE id NOT IN (SELECT rowid FROM entries_fts);
		`,
	},
}

// Migrate применяет все еще не примененные миграции.
func Migrate(db *sqlx.DB) error {
	// Сначала создаем таблицу учета миграций.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы _migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int
		err := db.Get(&applied, "SELECT COUNT(*) FROM _migrations WHERE name = ?", m.name)
		if err != nil {
			return fmt.Errorf("ошибка проверки миграции %s: %w", m.name, err)
		}
		if applied > 0 {
			continue
		}

		log.Printf("[Migrations] Применение миграции: %s", m.name)
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("ошибка применения миграции %s: %w", m.name, err)
		}
		if _, err := db.Exec("INSERT INTO _migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("ошибка записи миграции %s: %w", m.name, err)
		}
	}

	return nil
}
