package store

import (
	"context"
	"sort"
	"sync"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/models"
)

// FieldStore хранит описания полей активной коллекции.
// Инвариант: после любой мутации список отсортирован по position
// по возрастанию.
type FieldStore struct {
	mu  sync.Mutex
	api api.Client

	fields    []models.FieldDefinition
	isLoading bool
	err       error
}

// NewFieldStore создает хранилище описаний полей поверх API клиента.
func NewFieldStore(client api.Client) *FieldStore {
	return &FieldStore{api: client}
}

// FetchFields полностью заменяет список полей данными бэкенда.
func (s *FieldStore) FetchFields(ctx context.Context, vaultID int64) error {
	s.mu.Lock()
	s.err = nil
	s.isLoading = true
	s.mu.Unlock()

	fields, err := s.api.ListFields(ctx, vaultID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		s.err = err
		return err
	}
	s.fields = fields
	s.sortByPosition()
	return nil
}

// CreateField создает поле и вставляет его с пересортировкой:
// позицию в конце списка назначает бэкенд.
func (s *FieldStore) CreateField(ctx context.Context, params models.CreateFieldParams) (*models.FieldDefinition, error) {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	field, err := s.api.CreateField(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return nil, err
	}
	s.fields = append(s.fields, *field)
	s.sortByPosition()
	return field, nil
}

// UpdateField заменяет поле по идентичности без пересортировки:
// правки не меняют позицию, порядок меняется только через ReorderFields.
func (s *FieldStore) UpdateField(ctx context.Context, id int64, params models.UpdateFieldParams) (*models.FieldDefinition, error) {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	field, err := s.api.UpdateField(ctx, id, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return nil, err
	}
	for i := range s.fields {
		if s.fields[i].ID == field.ID {
			s.fields[i] = *field
			break
		}
	}
	return field, nil
}

// DeleteField удаляет поле по идентичности.
func (s *FieldStore) DeleteField(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	if err := s.api.DeleteField(ctx, id); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.fields[:0]
	for _, f := range s.fields {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.fields = kept
	return nil
}

// ReorderFields отправляет полный список id в новом порядке и на успехе
// проецирует эффект локально: позиция каждого поля равна индексу его id
// в переданной последовательности. Неизвестные id молча отбрасываются,
// свежая загрузка с бэкенда не требуется.
func (s *FieldStore) ReorderFields(ctx context.Context, vaultID int64, ids []int64) error {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	if err := s.api.ReorderFields(ctx, vaultID, ids); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	byID := make(map[int64]models.FieldDefinition, len(s.fields))
	for _, f := range s.fields {
		byID[f.ID] = f
	}
	reordered := make([]models.FieldDefinition, 0, len(ids))
	for idx, id := range ids {
		f, ok := byID[id]
		if !ok {
			continue
		}
		f.Position = idx
		reordered = append(reordered, f)
	}
	s.fields = reordered
	return nil
}

// Fields возвращает копию списка полей в порядке position.
func (s *FieldStore) Fields() []models.FieldDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FieldDefinition, len(s.fields))
	copy(out, s.fields)
	return out
}

// Reset очищает состояние при смене активной коллекции.
func (s *FieldStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = nil
	s.isLoading = false
	s.err = nil
}

// IsLoading сообщает, выполняется ли сейчас запрос списка.
func (s *FieldStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err возвращает ошибку последней неудачной операции.
func (s *FieldStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// sortByPosition восстанавливает инвариант порядка. Вызывается под мьютексом.
func (s *FieldStore) sortByPosition() {
	sort.SliceStable(s.fields, func(i, j int) bool {
		return s.fields[i].Position < s.fields[j].Position
	})
}
