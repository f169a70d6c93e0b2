package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"filmorate/internal/domain"
)

// memoryDB общее in-memory состояние для всех Memory*Store одного набора.
// Все значения копируются при записи и чтении, наружу указатели на внутренние данные не отдаются.
type memoryDB struct {
	mu sync.RWMutex

	films     map[int64]*filmRecord
	users     map[int64]domain.User
	directors map[int64]domain.Director
	genres    map[int64]domain.Genre
	mpa       map[int64]domain.Mpa
	reviews   map[int64]domain.Review
	events    []domain.Event

	likes   map[int64]map[int64]struct{} // filmID -> userID
	friends map[int64]map[int64]struct{} // userID -> friendID
	votes   map[int64]map[int64]int      // reviewID -> userID -> +1/-1

	lastFilmID, lastUserID, lastDirectorID, lastReviewID, lastEventID int64

	now func() time.Time
}

type filmRecord struct {
	film        domain.Film // без Mpa, Genres, Directors
	mpaID       int64
	genreIDs    []int64
	directorIDs []int64
}

// Справочники совпадают с сидом миграции 000002.
var (
	defaultMpa = []domain.Mpa{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
	defaultGenres = []domain.Genre{
		{ID: 1, Name: "Комедия"},
		{ID: 2, Name: "Драма"},
		{ID: 3, Name: "Мультфильм"},
		{ID: 4, Name: "Триллер"},
		{ID: 5, Name: "Документальный"},
		{ID: 6, Name: "Боевик"},
	}
)

func newMemoryDB() *memoryDB {
	db := &memoryDB{
		films:     make(map[int64]*filmRecord),
		users:     make(map[int64]domain.User),
		directors: make(map[int64]domain.Director),
		genres:    make(map[int64]domain.Genre),
		mpa:       make(map[int64]domain.Mpa),
		reviews:   make(map[int64]domain.Review),
		likes:     make(map[int64]map[int64]struct{}),
		friends:   make(map[int64]map[int64]struct{}),
		votes:     make(map[int64]map[int64]int),
		now:       time.Now,
	}
	for _, m := range defaultMpa {
		db.mpa[m.ID] = m
	}
	for _, g := range defaultGenres {
		db.genres[g.ID] = g
	}
	return db
}

// NewMemoryStores создает набор хранилищ, работающих в памяти процесса.
func NewMemoryStores() *Stores {
	db := newMemoryDB()
	return &Stores{
		Films:     &MemoryFilmStore{db: db},
		Users:     &MemoryUserStore{db: db},
		Directors: &MemoryDirectorStore{db: db},
		Reference: &MemoryReferenceStore{db: db},
		Reviews:   &MemoryReviewStore{db: db},
		Feed:      &MemoryFeedStore{db: db},
		Ping:      func(context.Context) error { return nil },
	}
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// --- Справочники ---

// MemoryReferenceStore реализует ReferenceStore поверх memoryDB.
type MemoryReferenceStore struct {
	db *memoryDB
}

func (s *MemoryReferenceStore) Genres(ctx context.Context) ([]domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	genres := make([]domain.Genre, 0, len(s.db.genres))
	for _, g := range s.db.genres {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

func (s *MemoryReferenceStore) Genre(ctx context.Context, id int64) (*domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	g, ok := s.db.genres[id]
	if !ok {
		return nil, ErrGenreNotFound
	}
	return &g, nil
}

func (s *MemoryReferenceStore) MpaRatings(ctx context.Context) ([]domain.Mpa, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	ratings := make([]domain.Mpa, 0, len(s.db.mpa))
	for _, m := range s.db.mpa {
		ratings = append(ratings, m)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

func (s *MemoryReferenceStore) Mpa(ctx context.Context, id int64) (*domain.Mpa, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	m, ok := s.db.mpa[id]
	if !ok {
		return nil, ErrMpaNotFound
	}
	return &m, nil
}

// --- Режиссеры ---

// MemoryDirectorStore реализует DirectorStore поверх memoryDB.
type MemoryDirectorStore struct {
	db *memoryDB
}

func (s *MemoryDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.lastDirectorID++
	director.ID = s.db.lastDirectorID
	s.db.directors[director.ID] = *director
	return nil
}

func (s *MemoryDirectorStore) Update(ctx context.Context, director *domain.Director) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.directors[director.ID]; !ok {
		return ErrDirectorNotFound
	}
	s.db.directors[director.ID] = *director
	return nil
}

func (s *MemoryDirectorStore) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	d, ok := s.db.directors[id]
	if !ok {
		return nil, ErrDirectorNotFound
	}
	return &d, nil
}

func (s *MemoryDirectorStore) List(ctx context.Context) ([]domain.Director, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	directors := make([]domain.Director, 0, len(s.db.directors))
	for _, d := range s.db.directors {
		directors = append(directors, d)
	}
	sort.Slice(directors, func(i, j int) bool { return directors[i].ID < directors[j].ID })
	return directors, nil
}

func (s *MemoryDirectorStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.directors[id]; !ok {
		return ErrDirectorNotFound
	}
	delete(s.db.directors, id)
	// Аналог ON DELETE CASCADE для film_directors
	for _, rec := range s.db.films {
		rec.directorIDs = removeID(rec.directorIDs, id)
	}
	return nil
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// --- Лента событий ---

// MemoryFeedStore реализует FeedStore поверх memoryDB.
type MemoryFeedStore struct {
	db *memoryDB
}

func (s *MemoryFeedStore) Add(ctx context.Context, event *domain.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[event.UserID]; !ok {
		return ErrUserNotFound
	}
	s.db.lastEventID++
	event.ID = s.db.lastEventID
	if event.Timestamp == 0 {
		event.Timestamp = s.db.now().UnixMilli()
	}
	s.db.events = append(s.db.events, *event)
	return nil
}

func (s *MemoryFeedStore) ListByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	events := make([]domain.Event, 0)
	// events хранятся в порядке добавления, то есть по возрастанию ID
	for _, e := range s.db.events {
		if e.UserID == userID {
			events = append(events, e)
		}
	}
	return events, nil
}
