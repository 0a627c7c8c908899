package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/huy1235588/Vaultrs/models"
)

// RelationTarget — строка для пакетного разрешения ссылок:
// запись вместе с именем ее коллекции.
type RelationTarget struct {
	EntryID        int64   `db:"id"`
	VaultID        int64   `db:"vault_id"`
	Title          string  `db:"title"`
	CoverImagePath *string `db:"cover_image_path"`
	VaultName      string  `db:"vault_name"`
}

// EntryRepository определяет методы для работы с записями.
type EntryRepository interface {
	Create(ctx context.Context, params models.CreateEntryParams) (*models.Entry, error)
	GetByID(ctx context.Context, id int64) (*models.Entry, error)
	ListByVault(ctx context.Context, vaultID, limit, offset int64) ([]models.Entry, error)
	CountByVault(ctx context.Context, vaultID int64) (int64, error)
	Update(ctx context.Context, id int64, params models.UpdateEntryParams) (*models.Entry, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, vaultID int64, ftsQuery string, limit, offset int64) ([]models.Entry, error)
	SearchCount(ctx context.Context, vaultID int64, ftsQuery string) (int64, error)
	PickerSearch(ctx context.Context, vaultID int64, query string, limit int64) ([]models.Entry, error)
	RelationTargets(ctx context.Context, entryIDs []int64) ([]RelationTarget, error)
}

type sqliteEntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository создает новый экземпляр репозитория записей.
func NewEntryRepository(db *sqlx.DB) EntryRepository {
	return &sqliteEntryRepository{db: db}
}

const entryColumns = `id, vault_id, title, description, cover_image_path, metadata, created_at, updated_at`

// Create вставляет запись и возвращает ее в каноническом виде из БД.
func (r *sqliteEntryRepository) Create(ctx context.Context, params models.CreateEntryParams) (*models.Entry, error) {
	query := `INSERT INTO entries (vault_id, title, description, metadata) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, params.VaultID, params.Title, params.Description, params.Metadata)
	if err != nil {
		log.Printf("[EntryRepo] Ошибка создания записи '%s': %v", params.Title, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на создание записи: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения id созданной записи: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID находит запись по id.
func (r *sqliteEntryRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = ?`
	var entry models.Entry

	err := r.db.GetContext(ctx, &entry, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		log.Printf("[EntryRepo] Ошибка при получении записи %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение записи: %w", err)
	}
	return &entry, nil
}

// ListByVault возвращает страницу записей коллекции, новые сверху.
func (r *sqliteEntryRepository) ListByVault(ctx context.Context, vaultID, limit, offset int64) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE vault_id = ?
	          ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	entries := []models.Entry{}

	if err := r.db.SelectContext(ctx, &entries, query, vaultID, limit, offset); err != nil {
		log.Printf("[EntryRepo] Ошибка при получении записей коллекции %d: %v", vaultID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на список записей: %w", err)
	}
	return entries, nil
}

// CountByVault возвращает общее число записей коллекции.
func (r *sqliteEntryRepository) CountByVault(ctx context.Context, vaultID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM entries WHERE vault_id = ?`, vaultID)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}
	return count, nil
}

// Update применяет частичный патч. Явный null очищает описание,
// путь обложки и метаданные.
func (r *sqliteEntryRepository) Update(ctx context.Context, id int64, params models.UpdateEntryParams) (*models.Entry, error) {
	set := []string{"updated_at = datetime('now')"}
	args := []any{}

	if title, ok := params.Title.Get(); ok {
		set = append(set, "title = ?")
		args = append(args, title)
	}
	applyNullable(&set, &args, "description", params.Description)
	applyNullable(&set, &args, "cover_image_path", params.CoverImagePath)
	applyNullable(&set, &args, "metadata", params.Metadata)

	query := fmt.Sprintf("UPDATE entries SET %s WHERE id = ?", joinSet(set))
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("[EntryRepo] Ошибка обновления записи %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на обновление записи: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrEntryNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete удаляет запись; индекс FTS чистится триггером.
func (r *sqliteEntryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		log.Printf("[EntryRepo] Ошибка удаления записи %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление записи: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Search выполняет запрос к FTS5-индексу. ftsQuery уже приведен к
// форме префиксного поиска по словам (см. services.BuildFTSQuery).
func (r *sqliteEntryRepository) Search(ctx context.Context, vaultID int64, ftsQuery string, limit, offset int64) ([]models.Entry, error) {
	query := `SELECT e.id, e.vault_id, e.title, e.description, e.cover_image_path, e.metadata, e.created_at, e.updated_at
	          FROM entries e
	          JOIN entries_fts f ON f.rowid = e.id
	          WHERE e.vault_id = ? AND entries_fts MATCH ?
	          ORDER BY rank LIMIT ? OFFSET ?`
	entries := []models.Entry{}

	if err := r.db.SelectContext(ctx, &entries, query, vaultID, ftsQuery, limit, offset); err != nil {
		log.Printf("[EntryRepo] Ошибка поиска '%s' в коллекции %d: %v", ftsQuery, vaultID, err)
		return nil, fmt.Errorf("ошибка выполнения поискового запроса: %w", err)
	}
	return entries, nil
}

// SearchCount возвращает число записей коллекции, подходящих под запрос.
func (r *sqliteEntryRepository) SearchCount(ctx context.Context, vaultID int64, ftsQuery string) (int64, error) {
	query := `SELECT COUNT(*)
	          FROM entries e
	          JOIN entries_fts f ON f.rowid = e.id
	          WHERE e.vault_id = ? AND entries_fts MATCH ?`
	var count int64

	if err := r.db.GetContext(ctx, &count, query, vaultID, ftsQuery); err != nil {
		return 0, fmt.Errorf("ошибка подсчета результатов поиска: %w", err)
	}
	return count, nil
}

// PickerSearch ищет записи-кандидаты для relation-поля: подстрока в
// заголовке, недавно измененные сверху.
func (r *sqliteEntryRepository) PickerSearch(ctx context.Context, vaultID int64, query string, limit int64) ([]models.Entry, error) {
	sqlQuery := `SELECT ` + entryColumns + ` FROM entries
	             WHERE vault_id = ? AND title LIKE ?
	             ORDER BY updated_at DESC LIMIT ?`
	entries := []models.Entry{}

	pattern := "%" + query + "%"
	if err := r.db.SelectContext(ctx, &entries, sqlQuery, vaultID, pattern, limit); err != nil {
		log.Printf("[EntryRepo] Ошибка поиска кандидатов в коллекции %d: %v", vaultID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса кандидатов: %w", err)
	}
	return entries, nil
}

// RelationTargets возвращает записи по списку id вместе с именами их
// коллекций. Отсутствующие id просто не попадают в результат.
func (r *sqliteEntryRepository) RelationTargets(ctx context.Context, entryIDs []int64) ([]RelationTarget, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT e.id, e.vault_id, e.title, e.cover_image_path, v.name AS vault_name
		 FROM entries e
		 JOIN vaults v ON v.id = e.vault_id
		 WHERE e.id IN (?)`, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("ошибка подготовки запроса разрешения ссылок: %w", err)
	}

	targets := []RelationTarget{}
	if err := r.db.SelectContext(ctx, &targets, r.db.Rebind(query), args...); err != nil {
		log.Printf("[EntryRepo] Ошибка разрешения ссылок: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса разрешения ссылок: %w", err)
	}
	return targets, nil
}
