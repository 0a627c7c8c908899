package store

import (
	"context"
	"sync"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/models"
)

// VaultStore хранит список коллекций и активный выбор.
// Создается явно и передается экранам через внедрение зависимостей,
// без глобальных синглтонов. Все методы безопасны для конкурентного
// вызова; состояние меняется в порядке разрешения запросов.
type VaultStore struct {
	mu  sync.Mutex
	api api.Client

	vaults        []models.Vault
	activeVaultID int64 // 0 означает "ничего не выбрано"
	isLoading     bool
	err           error
}

// NewVaultStore создает хранилище коллекций поверх API клиента.
func NewVaultStore(client api.Client) *VaultStore {
	return &VaultStore{api: client}
}

// FetchVaults полностью заменяет список коллекций данными бэкенда.
func (s *VaultStore) FetchVaults(ctx context.Context) error {
	s.mu.Lock()
	s.err = nil
	s.isLoading = true
	s.mu.Unlock()

	vaults, err := s.api.ListVaults(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		s.err = err
		return err
	}
	s.vaults = vaults
	return nil
}

// CreateVault создает коллекцию, вставляет ее в начало списка и
// делает активной одним атомарным обновлением состояния: ни одно
// промежуточное чтение не увидит новую коллекцию без активного выбора.
func (s *VaultStore) CreateVault(ctx context.Context, params models.CreateVaultParams) (*models.Vault, error) {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	vault, err := s.api.CreateVault(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return nil, err
	}
	s.vaults = append([]models.Vault{*vault}, s.vaults...)
	s.activeVaultID = vault.ID
	return vault, nil
}

// UpdateVault применяет частичный патч и заменяет коллекцию в списке
// по идентичности. Если id в списке нет, список не меняется.
func (s *VaultStore) UpdateVault(ctx context.Context, id int64, params models.UpdateVaultParams) (*models.Vault, error) {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	vault, err := s.api.UpdateVault(ctx, id, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return nil, err
	}
	for i := range s.vaults {
		if s.vaults[i].ID == vault.ID {
			s.vaults[i] = *vault
			break
		}
	}
	return vault, nil
}

// DeleteVault удаляет коллекцию. Если удалена активная, активной
// становится первая из оставшихся; пустой список оставляет выбор пустым.
func (s *VaultStore) DeleteVault(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	if err := s.api.DeleteVault(ctx, id); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.vaults[:0]
	for _, v := range s.vaults {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	s.vaults = kept
	if s.activeVaultID == id {
		if len(s.vaults) > 0 {
			s.activeVaultID = s.vaults[0].ID
		} else {
			s.activeVaultID = 0
		}
	}
	return nil
}

// SetActiveVault меняет активную коллекцию. Сброс хранилищ записей и
// полей при смене выбора — обязанность вызывающего кода.
func (s *VaultStore) SetActiveVault(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeVaultID = id
}

// Vaults возвращает копию текущего списка коллекций.
func (s *VaultStore) Vaults() []models.Vault {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Vault, len(s.vaults))
	copy(out, s.vaults)
	return out
}

// ActiveVaultID возвращает id активной коллекции и признак выбора.
func (s *VaultStore) ActiveVaultID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeVaultID, s.activeVaultID != 0
}

// ActiveVault возвращает активную коллекцию, если она есть в списке.
func (s *VaultStore) ActiveVault() (models.Vault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vaults {
		if v.ID == s.activeVaultID {
			return v, true
		}
	}
	return models.Vault{}, false
}

// IsLoading сообщает, выполняется ли сейчас запрос списка.
func (s *VaultStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err возвращает ошибку последней неудачной операции (nil после успеха).
func (s *VaultStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
