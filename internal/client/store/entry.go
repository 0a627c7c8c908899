package store

import (
	"context"
	"strings"
	"sync"

	"github.com/huy1235588/Vaultrs/internal/client/api"
	"github.com/huy1235588/Vaultrs/models"
)

// DefaultPageSize — размер страницы при листании и поиске.
const DefaultPageSize = 100

// EntryStore хранит две независимые проекции записей одной коллекции:
// список листания (с пагинацией) и результаты поиска. Режим поиска
// активен тогда и только тогда, когда searchQuery непустой; пустой
// активный поиск ("нет результатов") — валидное состояние, отличное
// от "поиск не ведется".
type EntryStore struct {
	mu  sync.Mutex
	api api.Client

	entries []models.Entry // Проекция листания
	total   int64
	page    int64          // Последняя загруженная страница (с нуля)
	hasMore bool           // Авторитетное значение бэкенда, клиент его не выводит сам

	searchResults []models.Entry // Проекция поиска
	searchTotal   int64
	searchQuery   string

	isLoading     bool
	isLoadingMore bool // Защита от параллельных загрузок страниц
	isSearching   bool
	err           error

	limit int64
}

// NewEntryStore создает хранилище записей поверх API клиента.
func NewEntryStore(client api.Client) *EntryStore {
	return &EntryStore{api: client, limit: DefaultPageSize}
}

// FetchEntries сбрасывает обе проекции (включая активный поиск:
// смена коллекции всегда выходит из режима поиска) и загружает
// нулевую страницу.
func (s *EntryStore) FetchEntries(ctx context.Context, vaultID int64) error {
	s.mu.Lock()
	s.err = nil
	s.isLoading = true
	s.entries = nil
	s.total = 0
	s.page = 0
	s.hasMore = false
	s.clearSearchLocked()
	limit := s.limit
	s.mu.Unlock()

	result, err := s.api.ListEntries(ctx, vaultID, 0, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		s.err = err
		return err
	}
	s.entries = result.Entries
	s.total = result.Total
	s.page = 0
	s.hasMore = result.HasMore
	return nil
}

// LoadMoreEntries подгружает следующую страницу листания. Ничего не
// делает при активном поиске, при hasMore=false и при уже выполняющейся
// загрузке: одновременно допускается не больше одного запроса страницы.
func (s *EntryStore) LoadMoreEntries(ctx context.Context, vaultID int64) error {
	s.mu.Lock()
	if s.searchQuery != "" || !s.hasMore || s.isLoadingMore {
		s.mu.Unlock()
		return nil
	}
	s.err = nil
	s.isLoadingMore = true
	nextPage := s.page + 1
	limit := s.limit
	s.mu.Unlock()

	result, err := s.api.ListEntries(ctx, vaultID, nextPage, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoadingMore = false
	if err != nil {
		// Уже загруженные страницы остаются на месте.
		s.err = err
		return err
	}
	s.entries = append(s.entries, result.Entries...)
	s.page = nextPage
	s.total = result.Total // Могла измениться при параллельном создании записей
	s.hasMore = result.HasMore
	return nil
}

// CreateEntry создает запись и вставляет ее в начало проекции листания.
// В результаты поиска запись не попадает, даже если подходит под запрос:
// поисковый индекс считается устаревшим до следующего явного поиска.
func (s *EntryStore) CreateEntry(ctx context.Context, params models.CreateEntryParams) (*models.Entry, error) {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	entry, err := s.api.CreateEntry(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return nil, err
	}
	s.entries = append([]models.Entry{*entry}, s.entries...)
	s.total++
	return entry, nil
}

// UpdateEntry заменяет запись по идентичности в обеих проекциях,
// где она присутствует на момент разрешения запроса: деталка, открытая
// из любого списка, увидит правку. Состояние поиска на момент начала
// вызова значения не имеет.
func (s *EntryStore) UpdateEntry(ctx context.Context, id int64, params models.UpdateEntryParams) (*models.Entry, error) {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	entry, err := s.api.UpdateEntry(ctx, id, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return nil, err
	}
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = *entry
			break
		}
	}
	for i := range s.searchResults {
		if s.searchResults[i].ID == entry.ID {
			s.searchResults[i] = *entry
			break
		}
	}
	return entry, nil
}

// DeleteEntry удаляет запись из обеих проекций. Каждый счетчик
// уменьшается только если запись действительно была в своей проекции.
func (s *EntryStore) DeleteEntry(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	if err := s.api.DeleteEntry(ctx, id); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if removed := removeEntry(&s.entries, id); removed {
		s.total--
	}
	if removed := removeEntry(&s.searchResults, id); removed {
		s.searchTotal--
	}
	return nil
}

// SearchEntries выполняет поиск по коллекции. Пустой после обрезки
// пробелов запрос эквивалентен ClearSearch и не порождает обращения
// к бэкенду. Ответы применяются в порядке разрешения: при гонке
// запросов видимым остается последний разрешившийся результат.
func (s *EntryStore) SearchEntries(ctx context.Context, vaultID int64, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		s.ClearSearch()
		return nil
	}

	s.mu.Lock()
	s.err = nil
	s.searchQuery = query
	s.isSearching = true
	limit := s.limit
	s.mu.Unlock()

	result, err := s.api.SearchEntries(ctx, vaultID, query, 0, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isSearching = false
	if err != nil {
		s.err = err
		return err
	}
	s.searchResults = result.Entries
	s.searchTotal = result.Total
	return nil
}

// ClearSearch сбрасывает состояние поиска, не трогая проекцию листания.
func (s *EntryStore) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSearchLocked()
}

// Reset полностью очищает состояние при смене активной коллекции.
func (s *EntryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.total = 0
	s.page = 0
	s.hasMore = false
	s.isLoading = false
	s.isLoadingMore = false
	s.err = nil
	s.clearSearchLocked()
}

// InSearchMode сообщает, активен ли режим поиска. Ветвиться нужно
// именно по этому признаку, а не по непустоте результатов.
func (s *EntryStore) InSearchMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery != ""
}

// VisibleEntries возвращает копию проекции, которую должен показывать
// список: результаты поиска в режиме поиска, иначе проекцию листания.
func (s *EntryStore) VisibleEntries() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.entries
	if s.searchQuery != "" {
		src = s.searchResults
	}
	out := make([]models.Entry, len(src))
	copy(out, src)
	return out
}

// Entries возвращает копию проекции листания.
func (s *EntryStore) Entries() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// SearchResults возвращает копию проекции поиска.
func (s *EntryStore) SearchResults() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Entry, len(s.searchResults))
	copy(out, s.searchResults)
	return out
}

// Total возвращает общее число записей коллекции по данным бэкенда.
func (s *EntryStore) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// SearchTotal возвращает число записей, подходящих под активный поиск.
func (s *EntryStore) SearchTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchTotal
}

// Page возвращает номер последней загруженной страницы листания.
func (s *EntryStore) Page() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// HasMore сообщает, есть ли следующая страница листания.
func (s *EntryStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// SearchQuery возвращает активный поисковый запрос ("" — поиска нет).
func (s *EntryStore) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// IsLoading сообщает, выполняется ли загрузка нулевой страницы.
func (s *EntryStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// IsLoadingMore сообщает, выполняется ли подгрузка следующей страницы.
func (s *EntryStore) IsLoadingMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoadingMore
}

// IsSearching сообщает, выполняется ли сейчас поисковый запрос.
func (s *EntryStore) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSearching
}

// Err возвращает ошибку последней неудачной операции.
func (s *EntryStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// clearSearchLocked сбрасывает поисковое состояние. Вызывается под мьютексом.
func (s *EntryStore) clearSearchLocked() {
	s.searchResults = nil
	s.searchTotal = 0
	s.searchQuery = ""
	s.isSearching = false
}

// removeEntry удаляет запись по id и сообщает, была ли она в срезе.
func removeEntry(entries *[]models.Entry, id int64) bool {
	for i := range *entries {
		if (*entries)[i].ID == id {
			*entries = append((*entries)[:i], (*entries)[i+1:]...)
			return true
		}
	}
	return false
}
