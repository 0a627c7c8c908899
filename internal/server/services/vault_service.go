package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/models"
)

// VaultService определяет интерфейс для сервиса работы с коллекциями.
type VaultService interface {
	Create(ctx context.Context, userID int64, params models.CreateVaultParams) (*models.Vault, error)
	Get(ctx context.Context, userID, id int64) (*models.Vault, error)
	List(ctx context.Context, userID int64) ([]models.Vault, error)
	Update(ctx context.Context, userID, id int64, params models.UpdateVaultParams) (*models.Vault, error)
	Delete(ctx context.Context, userID, id int64) error
}

var _ VaultService = (*vaultService)(nil) // Проверка соответствия интерфейсу

type vaultService struct {
	vaultRepo repository.VaultRepository
}

// NewVaultService создает новый экземпляр сервиса коллекций.
func NewVaultService(vaultRepo repository.VaultRepository) VaultService {
	return &vaultService{vaultRepo: vaultRepo}
}

// Create создает коллекцию. Имя обязательно и обрезается по краям.
func (s *vaultService) Create(ctx context.Context, userID int64, params models.CreateVaultParams) (*models.Vault, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, NewValidationError("Name is required")
	}

	vault, err := s.vaultRepo.Create(ctx, userID, params)
	if err != nil {
		log.Printf("[VaultService] Ошибка создания коллекции '%s': %v", params.Name, err)
		return nil, NewDatabaseError(err)
	}

	log.Printf("[VaultService] Создана коллекция '%s' (id=%d)", vault.Name, vault.ID)
	return vault, nil
}

// Get возвращает коллекцию пользователя по id.
func (s *vaultService) Get(ctx context.Context, userID, id int64) (*models.Vault, error) {
	vault, err := s.vaultRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(id)
		}
		return nil, NewDatabaseError(err)
	}
	return vault, nil
}

// List возвращает все коллекции пользователя, новые сверху.
func (s *vaultService) List(ctx context.Context, userID int64) ([]models.Vault, error) {
	vaults, err := s.vaultRepo.List(ctx, userID)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	return vaults, nil
}

// Update применяет частичный патч. Непустота имени проверяется только
// если имя присутствует в патче.
func (s *vaultService) Update(ctx context.Context, userID, id int64, params models.UpdateVaultParams) (*models.Vault, error) {
	if name, ok := params.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, NewValidationError("Name cannot be empty")
		}
		params.Name = models.Some(name)
	}

	vault, err := s.vaultRepo.Update(ctx, id, userID, params)
	if err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(id)
		}
		log.Printf("[VaultService] Ошибка обновления коллекции %d: %v", id, err)
		return nil, NewDatabaseError(err)
	}
	return vault, nil
}

// Delete удаляет коллекцию со всеми записями и описаниями полей.
func (s *vaultService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.vaultRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return NewVaultNotFound(id)
		}
		log.Printf("[VaultService] Ошибка удаления коллекции %d: %v", id, err)
		return NewDatabaseError(err)
	}
	log.Printf("[VaultService] Коллекция %d удалена", id)
	return nil
}
