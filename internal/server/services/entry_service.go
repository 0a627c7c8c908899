package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/models"
)

// DefaultEntryLimit — размер страницы по умолчанию для списка и поиска.
const DefaultEntryLimit = 100

// EntryService определяет интерфейс для сервиса записей.
type EntryService interface {
	Create(ctx context.Context, userID int64, params models.CreateEntryParams) (*models.Entry, error)
	Get(ctx context.Context, userID, id int64) (*models.Entry, error)
	List(ctx context.Context, userID, vaultID, page, limit int64) (*models.PaginatedEntries, error)
	Update(ctx context.Context, userID, id int64, params models.UpdateEntryParams) (*models.Entry, error)
	Delete(ctx context.Context, userID, id int64) error
	Search(ctx context.Context, userID, vaultID int64, query string, page, limit int64) (*models.SearchResult, error)
}

var _ EntryService = (*entryService)(nil)

type entryService struct {
	entryRepo repository.EntryRepository
	fieldRepo repository.FieldRepository
	vaultRepo repository.VaultRepository
	images    ImageService // Для удаления обложки вместе с записью
}

// NewEntryService создает новый экземпляр сервиса записей.
func NewEntryService(entryRepo repository.EntryRepository, fieldRepo repository.FieldRepository, vaultRepo repository.VaultRepository, images ImageService) EntryService {
	return &entryService{entryRepo: entryRepo, fieldRepo: fieldRepo, vaultRepo: vaultRepo, images: images}
}

// Create создает запись. Заголовок обязателен; метаданные проходят
// авторитетную проверку против описаний полей коллекции.
func (s *entryService) Create(ctx context.Context, userID int64, params models.CreateEntryParams) (*models.Entry, error) {
	params.Title = strings.TrimSpace(params.Title)
	if params.Title == "" {
		return nil, NewValidationError("Title is required")
	}

	if _, err := s.vaultRepo.GetByID(ctx, params.VaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(params.VaultID)
		}
		return nil, NewDatabaseError(err)
	}

	fields, err := s.fieldRepo.ListByVault(ctx, params.VaultID)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	validator := newMetadataValidator(fields)
	if errs := validator.Validate(params.Metadata); len(errs) > 0 {
		return nil, NewValidationError("%s", strings.Join(errs, "; "))
	}

	entry, err := s.entryRepo.Create(ctx, params)
	if err != nil {
		log.Printf("[EntryService] Ошибка создания записи '%s': %v", params.Title, err)
		return nil, NewDatabaseError(err)
	}

	log.Printf("[EntryService] Создана запись '%s' (id=%d)", entry.Title, entry.ID)
	return entry, nil
}

// Get возвращает запись по id, если она лежит в коллекции пользователя.
func (s *entryService) Get(ctx context.Context, userID, id int64) (*models.Entry, error) {
	return s.getOwned(ctx, userID, id)
}

// getOwned загружает запись и проверяет, что ее коллекция принадлежит
// пользователю. Чужая запись неотличима от несуществующей.
func (s *entryService) getOwned(ctx context.Context, userID, id int64) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, NewEntryNotFound(id)
		}
		return nil, NewDatabaseError(err)
	}
	if _, err := s.vaultRepo.GetByID(ctx, entry.VaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewEntryNotFound(id)
		}
		return nil, NewDatabaseError(err)
	}
	return entry, nil
}

// List возвращает страницу записей. has_more вычисляется здесь и
// является единственным источником истины для клиента.
func (s *entryService) List(ctx context.Context, userID, vaultID, page, limit int64) (*models.PaginatedEntries, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = DefaultEntryLimit
	}

	if _, err := s.vaultRepo.GetByID(ctx, vaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(vaultID)
		}
		return nil, NewDatabaseError(err)
	}

	total, err := s.entryRepo.CountByVault(ctx, vaultID)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	entries, err := s.entryRepo.ListByVault(ctx, vaultID, limit, page*limit)
	if err != nil {
		return nil, NewDatabaseError(err)
	}

	return &models.PaginatedEntries{
		Entries: entries,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: (page+1)*limit < total,
	}, nil
}

// Update применяет частичный патч. Непустота заголовка проверяется
// только если он присутствует в патче; метаданные проходят проверку
// и ленивую чистку осиротевших ключей.
func (s *entryService) Update(ctx context.Context, userID, id int64, params models.UpdateEntryParams) (*models.Entry, error) {
	entry, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if title, ok := params.Title.Get(); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, NewValidationError("Title cannot be empty")
		}
		params.Title = models.Some(title)
	}

	if metadata, ok := params.Metadata.Get(); ok {
		fields, err := s.fieldRepo.ListByVault(ctx, entry.VaultID)
		if err != nil {
			return nil, NewDatabaseError(err)
		}
		validator := newMetadataValidator(fields)
		if errs := validator.Validate(&metadata); len(errs) > 0 {
			return nil, NewValidationError("%s", strings.Join(errs, "; "))
		}
		params.Metadata = models.Some(validator.CleanupOrphans(metadata))
	}

	updated, err := s.entryRepo.Update(ctx, id, params)
	if err != nil {
		log.Printf("[EntryService] Ошибка обновления записи %d: %v", id, err)
		return nil, NewDatabaseError(err)
	}
	return updated, nil
}

// Delete удаляет запись вместе с локальным файлом обложки.
func (s *entryService) Delete(ctx context.Context, userID, id int64) error {
	entry, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, id); err != nil {
		log.Printf("[EntryService] Ошибка удаления записи %d: %v", id, err)
		return NewDatabaseError(err)
	}

	// Файл обложки чистим после удаления строки; неудача не откатывает
	// удаление записи, только пишется в лог.
	if entry.CoverImagePath != nil {
		s.images.DeleteAsset(ctx, *entry.CoverImagePath)
	}

	log.Printf("[EntryService] Запись %d удалена", id)
	return nil
}

// Search выполняет полнотекстовый поиск. Пустой после обрезки запрос
// дает пустой результат без обращения к индексу.
func (s *entryService) Search(ctx context.Context, userID, vaultID int64, query string, page, limit int64) (*models.SearchResult, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = DefaultEntryLimit
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return &models.SearchResult{Entries: []models.Entry{}, Total: 0, Query: ""}, nil
	}

	if _, err := s.vaultRepo.GetByID(ctx, vaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewVaultNotFound(vaultID)
		}
		return nil, NewDatabaseError(err)
	}

	ftsQuery := BuildFTSQuery(query)
	total, err := s.entryRepo.SearchCount(ctx, vaultID, ftsQuery)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	entries, err := s.entryRepo.Search(ctx, vaultID, ftsQuery, limit, page*limit)
	if err != nil {
		return nil, NewDatabaseError(err)
	}

	return &models.SearchResult{
		Entries: entries,
		Total:   total,
		Query:   query,
		HasMore: (page+1)*limit < total,
	}, nil
}

// BuildFTSQuery приводит пользовательский запрос к форме FTS5:
// каждое слово экранируется и превращается в префиксный терм
// ("dune herb" -> "\"dune\"* \"herb\"*").
func BuildFTSQuery(query string) string {
	words := strings.Fields(query)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		escaped := strings.ReplaceAll(w, `"`, `""`)
		terms = append(terms, `"`+escaped+`"*`)
	}
	return strings.Join(terms, " ")
}
