package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/huy1235588/Vaultrs/models"
)

// FieldRepository определяет методы для работы с описаниями полей.
type FieldRepository interface {
	Create(ctx context.Context, params models.CreateFieldParams) (*models.FieldDefinition, error)
	GetByID(ctx context.Context, id int64) (*models.FieldDefinition, error)
	ListByVault(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error)
	CountByName(ctx context.Context, vaultID int64, name string, excludeID int64) (int, error)
	Update(ctx context.Context, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, vaultID int64, ids []int64) error
}

type sqliteFieldRepository struct {
	db *sqlx.DB
}

// NewFieldRepository создает новый экземпляр репозитория описаний полей.
func NewFieldRepository(db *sqlx.DB) FieldRepository {
	return &sqliteFieldRepository{db: db}
}

const fieldColumns = `id, vault_id, name, field_type, options, position, required, created_at, updated_at`

// Create вставляет описание поля. Позиция назначается в конце списка
// коллекции; назначение и вставка выполняются в одной транзакции.
func (r *sqliteFieldRepository) Create(ctx context.Context, params models.CreateFieldParams) (*models.FieldDefinition, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // откат после коммита безвреден

	var position int
	err = tx.GetContext(ctx, &position,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM field_definitions WHERE vault_id = ?`, params.VaultID)
	if err != nil {
		return nil, fmt.Errorf("ошибка вычисления позиции поля: %w", err)
	}

	options, err := marshalOptions(params.Options)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO field_definitions (vault_id, name, field_type, options, position, required)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		params.VaultID, params.Name, params.FieldType, options, position, params.Required)
	if err != nil {
		log.Printf("[FieldRepo] Ошибка создания поля '%s': %v", params.Name, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на создание поля: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения id созданного поля: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID находит описание поля по id.
func (r *sqliteFieldRepository) GetByID(ctx context.Context, id int64) (*models.FieldDefinition, error) {
	query := `SELECT ` + fieldColumns + ` FROM field_definitions WHERE id = ?`
	var field models.FieldDefinition

	err := r.db.GetContext(ctx, &field, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		log.Printf("[FieldRepo] Ошибка при получении поля %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение поля: %w", err)
	}
	return &field, nil
}

// ListByVault возвращает поля коллекции в порядке position.
func (r *sqliteFieldRepository) ListByVault(ctx context.Context, vaultID int64) ([]models.FieldDefinition, error) {
	query := `SELECT ` + fieldColumns + ` FROM field_definitions WHERE vault_id = ? ORDER BY position ASC`
	fields := []models.FieldDefinition{}

	if err := r.db.SelectContext(ctx, &fields, query, vaultID); err != nil {
		log.Printf("[FieldRepo] Ошибка при получении полей коллекции %d: %v", vaultID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на список полей: %w", err)
	}
	return fields, nil
}

// CountByName считает поля коллекции с данным именем, исключая excludeID
// (0 — не исключать никого). Используется для проверки дубликатов.
func (r *sqliteFieldRepository) CountByName(ctx context.Context, vaultID int64, name string, excludeID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM field_definitions WHERE vault_id = ? AND name = ? AND id != ?`,
		vaultID, name, excludeID)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки имени поля: %w", err)
	}
	return count, nil
}

// Update применяет частичный патч. Тип поля и позиция этим путем
// не меняются; явный null очищает options.
func (r *sqliteFieldRepository) Update(ctx context.Context, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error) {
	set := []string{"updated_at = datetime('now')"}
	args := []any{}

	if name, ok := params.Name.Get(); ok {
		set = append(set, "name = ?")
		args = append(args, name)
	}
	if params.Options.Present {
		if params.Options.Null {
			set = append(set, "options = NULL")
		} else {
			options, err := marshalOptions(&params.Options.Value)
			if err != nil {
				return nil, err
			}
			set = append(set, "options = ?")
			args = append(args, options)
		}
	}
	if required, ok := params.Required.Get(); ok {
		set = append(set, "required = ?")
		args = append(args, required)
	}

	query := fmt.Sprintf("UPDATE field_definitions SET %s WHERE id = ?", joinSet(set))
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("[FieldRepo] Ошибка обновления поля %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на обновление поля: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrFieldNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete удаляет описание поля. Значения в метаданных записей не
// трогаются: осиротевшие ключи вычищаются лениво при обновлении записи.
func (r *sqliteFieldRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM field_definitions WHERE id = ?`, id)
	if err != nil {
		log.Printf("[FieldRepo] Ошибка удаления поля %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление поля: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrFieldNotFound
	}
	return nil
}

// Reorder атомарно переназначает позиции: позиция каждого поля равна
// индексу его id в переданной последовательности.
func (r *sqliteFieldRepository) Reorder(ctx context.Context, vaultID int64, ids []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for idx, id := range ids {
		_, err := tx.ExecContext(ctx,
			`UPDATE field_definitions SET position = ?, updated_at = datetime('now') WHERE id = ? AND vault_id = ?`,
			idx, id, vaultID)
		if err != nil {
			log.Printf("[FieldRepo] Ошибка переупорядочивания поля %d: %v", id, err)
			return fmt.Errorf("ошибка выполнения запроса на переупорядочивание: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	log.Printf("[FieldRepo] Позиции %d полей коллекции %d переназначены", len(ids), vaultID)
	return nil
}

// marshalOptions сериализует опции поля для хранения в колонке TEXT.
func marshalOptions(options *models.FieldOptions) (any, error) {
	if options == nil {
		return nil, nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации опций поля: %w", err)
	}
	return string(data), nil
}
