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

// VaultRepository определяет методы для работы с коллекциями.
// Все выборки фильтруются по владельцу.
type VaultRepository interface {
	Create(ctx context.Context, userID int64, params models.CreateVaultParams) (*models.Vault, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Vault, error)
	List(ctx context.Context, userID int64) ([]models.Vault, error)
	Update(ctx context.Context, id, userID int64, params models.UpdateVaultParams) (*models.Vault, error)
	Delete(ctx context.Context, id, userID int64) error
}

type sqliteVaultRepository struct {
	db *sqlx.DB
}

// NewVaultRepository создает новый экземпляр репозитория коллекций.
func NewVaultRepository(db *sqlx.DB) VaultRepository {
	return &sqliteVaultRepository{db: db}
}

const vaultColumns = `id, user_id, name, description, icon, color, created_at, updated_at`

// Create вставляет коллекцию и возвращает ее в каноническом виде из БД
// (с назначенными id и временными метками).
func (r *sqliteVaultRepository) Create(ctx context.Context, userID int64, params models.CreateVaultParams) (*models.Vault, error) {
	query := `INSERT INTO vaults (user_id, name, description, icon, color) VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, userID, params.Name, params.Description, params.Icon, params.Color)
	if err != nil {
		log.Printf("[VaultRepo] Ошибка создания коллекции '%s': %v", params.Name, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на создание коллекции: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения id созданной коллекции: %w", err)
	}

	return r.GetByID(ctx, id, userID)
}

// GetByID находит коллекцию пользователя по id.
func (r *sqliteVaultRepository) GetByID(ctx context.Context, id, userID int64) (*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = ? AND user_id = ?`
	var vault models.Vault

	err := r.db.GetContext(ctx, &vault, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVaultNotFound
		}
		log.Printf("[VaultRepo] Ошибка при получении коллекции %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение коллекции: %w", err)
	}
	return &vault, nil
}

// List возвращает коллекции пользователя, новые сверху.
func (r *sqliteVaultRepository) List(ctx context.Context, userID int64) ([]models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	vaults := []models.Vault{}

	if err := r.db.SelectContext(ctx, &vaults, query, userID); err != nil {
		log.Printf("[VaultRepo] Ошибка при получении списка коллекций пользователя %d: %v", userID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на список коллекций: %w", err)
	}
	return vaults, nil
}

// Update применяет частичный патч. Отсутствующие в патче поля не
// меняются; явный null очищает описание, иконку и цвет.
func (r *sqliteVaultRepository) Update(ctx context.Context, id, userID int64, params models.UpdateVaultParams) (*models.Vault, error) {
	set := []string{"updated_at = datetime('now')"}
	args := []any{}

	if name, ok := params.Name.Get(); ok {
		set = append(set, "name = ?")
		args = append(args, name)
	}
	applyNullable(&set, &args, "description", params.Description)
	applyNullable(&set, &args, "icon", params.Icon)
	applyNullable(&set, &args, "color", params.Color)

	query := fmt.Sprintf("UPDATE vaults SET %s WHERE id = ? AND user_id = ?", joinSet(set))
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("[VaultRepo] Ошибка обновления коллекции %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на обновление коллекции: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrVaultNotFound
	}

	return r.GetByID(ctx, id, userID)
}

// Delete удаляет коллекцию; записи и описания полей каскадируются БД.
func (r *sqliteVaultRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaults WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		log.Printf("[VaultRepo] Ошибка удаления коллекции %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление коллекции: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrVaultNotFound
	}
	log.Printf("[VaultRepo] Коллекция %d удалена", id)
	return nil
}

// applyNullable добавляет SET-выражение для опционального текстового поля:
// значение либо устанавливается, либо обнуляется при явном null.
func applyNullable(set *[]string, args *[]any, column string, opt models.Optional[string]) {
	if !opt.Present {
		return
	}
	if opt.Null {
		*set = append(*set, column+" = NULL")
		return
	}
	*set = append(*set, column+" = ?")
	*args = append(*args, opt.Value)
}

// joinSet собирает SET-часть запроса.
func joinSet(set []string) string {
	out := set[0]
	for _, s := range set[1:] {
		out += ", " + s
	}
	return out
}
