package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/models"
)

// FieldService определяет интерфейс для сервиса описаний полей.
type FieldService interface {
	Create(ctx context.Context, userID int64, params models.CreateFieldParams) (*models.FieldDefinition, error)
	Get(ctx context.Context, userID, id int64) (*models.FieldDefinition, error)
	List(ctx context.Context, userID, vaultID int64) ([]models.FieldDefinition, error)
	Update(ctx context.Context, userID, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error)
	Delete(ctx context.Context, userID, id int64) error
	Reorder(ctx context.Context, userID, vaultID int64, ids []int64) error
}

var _ FieldService = (*fieldService)(nil)

type fieldService struct {
	fieldRepo repository.FieldRepository
	vaultRepo repository.VaultRepository
}

// NewFieldService создает новый экземпляр сервиса описаний полей.
func NewFieldService(fieldRepo repository.FieldRepository, vaultRepo repository.VaultRepository) FieldService {
	return &fieldService{fieldRepo: fieldRepo, vaultRepo: vaultRepo}
}

// Create создает описание поля в конце списка коллекции.
func (s *fieldService) Create(ctx context.Context, userID int64, params models.CreateFieldParams) (*models.FieldDefinition, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, NewValidationError("Field name is required")
	}
	if !params.FieldType.Valid() {
		return nil, NewValidationError("Unknown field type '%s'", params.FieldType)
	}
	if params.FieldType == models.FieldTypeSelect {
		if params.Options == nil || len(params.Options.Choices) == 0 {
			return nil, NewValidationError("Select field requires at least one choice")
		}
	}

	// Проверяем, что коллекция существует и принадлежит пользователю.
	if _, err := s.vaultRepo.GetByID(ctx, params.VaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(params.VaultID)
		}
		return nil, NewDatabaseError(err)
	}

	count, err := s.fieldRepo.CountByName(ctx, params.VaultID, params.Name, 0)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	if count > 0 {
		return nil, NewValidationError("Field '%s' already exists in this vault", params.Name)
	}

	field, err := s.fieldRepo.Create(ctx, params)
	if err != nil {
		log.Printf("[FieldService] Ошибка создания поля '%s': %v", params.Name, err)
		return nil, NewDatabaseError(err)
	}

	log.Printf("[FieldService] Создано поле '%s' (id=%d, позиция %d)", field.Name, field.ID, field.Position)
	return field, nil
}

// Get возвращает описание поля по id, если его коллекция принадлежит
// пользователю.
func (s *fieldService) Get(ctx context.Context, userID, id int64) (*models.FieldDefinition, error) {
	return s.getOwned(ctx, userID, id)
}

// getOwned загружает описание поля и проверяет владельца коллекции.
// Чужое поле неотличимо от несуществующего.
func (s *fieldService) getOwned(ctx context.Context, userID, id int64) (*models.FieldDefinition, error) {
	field, err := s.fieldRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return nil, NewFieldNotFound(id)
		}
		return nil, NewDatabaseError(err)
	}
	if _, err := s.vaultRepo.GetByID(ctx, field.VaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewFieldNotFound(id)
		}
		return nil, NewDatabaseError(err)
	}
	return field, nil
}

// List возвращает поля коллекции в порядке position.
func (s *fieldService) List(ctx context.Context, userID, vaultID int64) ([]models.FieldDefinition, error) {
	if _, err := s.vaultRepo.GetByID(ctx, vaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(vaultID)
		}
		return nil, NewDatabaseError(err)
	}

	fields, err := s.fieldRepo.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	return fields, nil
}

// Update применяет частичный патч. Тип поля после создания не меняется,
// позиция меняется только через Reorder.
func (s *fieldService) Update(ctx context.Context, userID, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error) {
	field, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name, ok := params.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, NewValidationError("Field name cannot be empty")
		}
		count, err := s.fieldRepo.CountByName(ctx, field.VaultID, name, id)
		if err != nil {
			return nil, NewDatabaseError(err)
		}
		if count > 0 {
			return nil, NewValidationError("Field '%s' already exists in this vault", name)
		}
		params.Name = models.Some(name)
	}

	updated, err := s.fieldRepo.Update(ctx, id, params)
	if err != nil {
		log.Printf("[FieldService] Ошибка обновления поля %d: %v", id, err)
		return nil, NewDatabaseError(err)
	}
	return updated, nil
}

// Delete удаляет описание поля. Значения в метаданных записей остаются
// и вычищаются лениво при следующем обновлении записи.
func (s *fieldService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.fieldRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return NewFieldNotFound(id)
		}
		return NewDatabaseError(err)
	}
	log.Printf("[FieldService] Поле %d удалено", id)
	return nil
}

// Reorder атомарно переназначает позиции 0..n-1 по переданному порядку.
// Каждый id обязан принадлежать указанной коллекции.
func (s *fieldService) Reorder(ctx context.Context, userID, vaultID int64, ids []int64) error {
	if _, err := s.vaultRepo.GetByID(ctx, vaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return NewVaultNotFound(vaultID)
		}
		return NewDatabaseError(err)
	}

	fields, err := s.fieldRepo.ListByVault(ctx, vaultID)
	if err != nil {
		return NewDatabaseError(err)
	}
	member := make(map[int64]bool, len(fields))
	for _, f := range fields {
		member[f.ID] = true
	}
	for _, id := range ids {
		if !member[id] {
			return NewValidationError("Field %d does not belong to vault %d", id, vaultID)
		}
	}

	if err := s.fieldRepo.Reorder(ctx, vaultID, ids); err != nil {
		log.Printf("[FieldService] Ошибка переупорядочивания полей коллекции %d: %v", vaultID, err)
		return NewDatabaseError(err)
	}
	log.Printf("[FieldService] Позиции полей коллекции %d переназначены", vaultID)
	return nil
}
