package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/models"
)

const (
	// Границы лимита выдачи кандидатов для relation-поля.
	pickerMinLimit = 1
	pickerMaxLimit = 100

	// Длина подзаголовка кандидата, дальше описание обрезается.
	pickerSubtitleLimit = 100
)

// deletedRelationTitle показывается вместо заголовка удаленной или
// перемещенной записи.
const deletedRelationTitle = "[Deleted]"

// RelationService определяет интерфейс для работы со ссылками между
// записями разных коллекций.
type RelationService interface {
	// Resolve пакетно разрешает ссылки. Ключ результата — "entry_id:vault_id".
	Resolve(ctx context.Context, refs []models.RelationValue) (map[string]models.ResolvedRelation, error)
	// PickerSearch возвращает записи-кандидаты коллекции для выбора
	// значения relation-поля.
	PickerSearch(ctx context.Context, userID, vaultID int64, query string, limit int64) ([]models.EntryPickerItem, error)
}

var _ RelationService = (*relationService)(nil)

type relationService struct {
	entryRepo repository.EntryRepository
	vaultRepo repository.VaultRepository
}

// NewRelationService создает новый экземпляр сервиса ссылок.
func NewRelationService(entryRepo repository.EntryRepository, vaultRepo repository.VaultRepository) RelationService {
	return &relationService{entryRepo: entryRepo, vaultRepo: vaultRepo}
}

// Resolve разрешает ссылки одним запросом к БД. Запись, которой нет
// или которая лежит не в той коллекции, что ожидает ссылка, помечается
// Exists=false с заголовком "[Deleted]".
func (s *relationService) Resolve(ctx context.Context, refs []models.RelationValue) (map[string]models.ResolvedRelation, error) {
	results := make(map[string]models.ResolvedRelation, len(refs))
	if len(refs) == 0 {
		return results, nil
	}

	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.EntryID)
	}

	targets, err := s.entryRepo.RelationTargets(ctx, ids)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	byID := make(map[int64]repository.RelationTarget, len(targets))
	for _, t := range targets {
		byID[t.EntryID] = t
	}

	for _, ref := range refs {
		target, ok := byID[ref.EntryID]
		if !ok || target.VaultID != ref.VaultID {
			results[ref.Key()] = models.ResolvedRelation{
				EntryID: ref.EntryID,
				VaultID: ref.VaultID,
				Title:   deletedRelationTitle,
				Exists:  false,
			}
			continue
		}
		vaultName := target.VaultName
		results[ref.Key()] = models.ResolvedRelation{
			EntryID:        ref.EntryID,
			VaultID:        ref.VaultID,
			Title:          target.Title,
			Exists:         true,
			VaultName:      &vaultName,
			CoverImagePath: target.CoverImagePath,
		}
	}

	log.Printf("[RelationService] Разрешено ссылок: %d", len(refs))
	return results, nil
}

// PickerSearch ищет кандидатов по подстроке в заголовке; при пустом
// запросе возвращает недавно измененные записи.
func (s *relationService) PickerSearch(ctx context.Context, userID, vaultID int64, query string, limit int64) ([]models.EntryPickerItem, error) {
	if _, err := s.vaultRepo.GetByID(ctx, vaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(vaultID)
		}
		return nil, NewDatabaseError(err)
	}

	if limit < pickerMinLimit {
		limit = pickerMinLimit
	}
	if limit > pickerMaxLimit {
		limit = pickerMaxLimit
	}

	entries, err := s.entryRepo.PickerSearch(ctx, vaultID, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, NewDatabaseError(err)
	}

	items := make([]models.EntryPickerItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.EntryPickerItem{
			ID:        e.ID,
			VaultID:   e.VaultID,
			Title:     e.Title,
			Subtitle:  pickerSubtitle(e.Description),
			Thumbnail: e.CoverImagePath,
		})
	}
	return items, nil
}

// pickerSubtitle готовит подзаголовок из описания записи: пустое
// описание опускается, длинное обрезается с многоточием.
func pickerSubtitle(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	if runes := []rune(d); len(runes) > pickerSubtitleLimit {
		d = string(runes[:pickerSubtitleLimit]) + "..."
	}
	return &d
}
