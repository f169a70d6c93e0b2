package store

import (
	"context"
	"sort"
	"strings"

	"filmorate/internal/domain"
)

// MemoryFilmStore реализует FilmStore поверх memoryDB.
type MemoryFilmStore struct {
	db *memoryDB
}

// checkRefsLocked повторяет проверки внешних ключей films/film_genres/film_directors.
func (s *MemoryFilmStore) checkRefsLocked(film *domain.Film) error {
	if film.Mpa == nil {
		return ErrMpaNotFound
	}
	if _, ok := s.db.mpa[film.Mpa.ID]; !ok {
		return ErrMpaNotFound
	}
	for _, id := range film.GenreIDs() {
		if _, ok := s.db.genres[id]; !ok {
			return ErrGenreNotFound
		}
	}
	for _, id := range film.DirectorIDs() {
		if _, ok := s.db.directors[id]; !ok {
			return ErrDirectorNotFound
		}
	}
	return nil
}

func newFilmRecord(film *domain.Film) *filmRecord {
	genreIDs := film.GenreIDs()
	directorIDs := film.DirectorIDs()
	sort.Slice(genreIDs, func(i, j int) bool { return genreIDs[i] < genreIDs[j] })
	sort.Slice(directorIDs, func(i, j int) bool { return directorIDs[i] < directorIDs[j] })

	base := *film
	base.Mpa, base.Genres, base.Directors = nil, nil, nil
	return &filmRecord{film: base, mpaID: film.Mpa.ID, genreIDs: genreIDs, directorIDs: directorIDs}
}

// filmLocked собирает полную модель фильма из записи и справочников.
func (s *MemoryFilmStore) filmLocked(rec *filmRecord) domain.Film {
	film := rec.film
	mpa := s.db.mpa[rec.mpaID]
	film.Mpa = &mpa
	film.Genres = make([]domain.Genre, 0, len(rec.genreIDs))
	for _, id := range rec.genreIDs {
		film.Genres = append(film.Genres, s.db.genres[id])
	}
	film.Directors = make([]domain.Director, 0, len(rec.directorIDs))
	for _, id := range rec.directorIDs {
		if d, ok := s.db.directors[id]; ok {
			film.Directors = append(film.Directors, d)
		}
	}
	return film
}

func (s *MemoryFilmStore) Create(ctx context.Context, film *domain.Film) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.checkRefsLocked(film); err != nil {
		return err
	}
	s.db.lastFilmID++
	film.ID = s.db.lastFilmID
	s.db.films[film.ID] = newFilmRecord(film)
	return nil
}

func (s *MemoryFilmStore) Update(ctx context.Context, film *domain.Film) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.films[film.ID]; !ok {
		return ErrFilmNotFound
	}
	if err := s.checkRefsLocked(film); err != nil {
		return err
	}
	s.db.films[film.ID] = newFilmRecord(film)
	return nil
}

func (s *MemoryFilmStore) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	rec, ok := s.db.films[id]
	if !ok {
		return nil, ErrFilmNotFound
	}
	film := s.filmLocked(rec)
	return &film, nil
}

func (s *MemoryFilmStore) List(ctx context.Context) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	films := s.collectLocked(func(*filmRecord) bool { return true })
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (s *MemoryFilmStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.films[id]; !ok {
		return ErrFilmNotFound
	}
	delete(s.db.films, id)
	delete(s.db.likes, id)
	for reviewID, r := range s.db.reviews {
		if r.FilmID == id {
			delete(s.db.reviews, reviewID)
			delete(s.db.votes, reviewID)
		}
	}
	return nil
}

func (s *MemoryFilmStore) AddLike(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.films[filmID]; !ok {
		return ErrFilmNotFound
	}
	if _, ok := s.db.users[userID]; !ok {
		return ErrUserNotFound
	}
	if s.db.likes[filmID] == nil {
		s.db.likes[filmID] = make(map[int64]struct{})
	}
	s.db.likes[filmID][userID] = struct{}{}
	return nil
}

func (s *MemoryFilmStore) RemoveLike(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.films[filmID]; !ok {
		return ErrFilmNotFound
	}
	if _, ok := s.db.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(s.db.likes[filmID], userID)
	return nil
}

func (s *MemoryFilmStore) Popular(ctx context.Context, params PopularParams) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	films := s.collectLocked(func(rec *filmRecord) bool {
		if params.GenreID != 0 && !containsID(rec.genreIDs, params.GenreID) {
			return false
		}
		if params.Year != 0 && rec.film.ReleaseDate.Year() != params.Year {
			return false
		}
		return true
	})
	s.sortByLikesLocked(films)
	if params.Count > 0 && len(films) > params.Count {
		films = films[:params.Count]
	}
	return films, nil
}

func (s *MemoryFilmStore) ByDirector(ctx context.Context, directorID int64, sortBy DirectorSort) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if _, ok := s.db.directors[directorID]; !ok {
		return nil, ErrDirectorNotFound
	}
	films := s.collectLocked(func(rec *filmRecord) bool {
		return containsID(rec.directorIDs, directorID)
	})
	if sortBy == SortByLikes {
		s.sortByLikesLocked(films)
		return films, nil
	}
	sort.Slice(films, func(i, j int) bool {
		if !films[i].ReleaseDate.Equal(films[j].ReleaseDate.Time) {
			return films[i].ReleaseDate.Before(films[j].ReleaseDate.Time)
		}
		return films[i].ID < films[j].ID
	})
	return films, nil
}

func (s *MemoryFilmStore) Search(ctx context.Context, params SearchParams) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	query := strings.ToLower(params.Query)
	films := s.collectLocked(func(rec *filmRecord) bool {
		if params.ByTitle && strings.Contains(strings.ToLower(rec.film.Name), query) {
			return true
		}
		if params.ByDirector {
			for _, id := range rec.directorIDs {
				if d, ok := s.db.directors[id]; ok && strings.Contains(strings.ToLower(d.Name), query) {
					return true
				}
			}
		}
		return false
	})
	s.sortByLikesLocked(films)
	return films, nil
}

func (s *MemoryFilmStore) Recommendations(ctx context.Context, userID int64) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	liked := make(map[int64]struct{})
	overlap := make(map[int64]int)
	for filmID, users := range s.db.likes {
		if _, ok := users[userID]; !ok {
			continue
		}
		liked[filmID] = struct{}{}
		for other := range users {
			if other != userID {
				overlap[other]++
			}
		}
	}

	var best int64
	bestCount := 0
	for other, count := range overlap {
		if count > bestCount || (count == bestCount && other < best) {
			best, bestCount = other, count
		}
	}
	if bestCount == 0 {
		return []domain.Film{}, nil
	}

	films := s.collectLocked(func(rec *filmRecord) bool {
		if _, ok := liked[rec.film.ID]; ok {
			return false
		}
		_, ok := s.db.likes[rec.film.ID][best]
		return ok
	})
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (s *MemoryFilmStore) Common(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	films := s.collectLocked(func(rec *filmRecord) bool {
		users := s.db.likes[rec.film.ID]
		_, a := users[userID]
		_, b := users[friendID]
		return a && b
	})
	s.sortByLikesLocked(films)
	return films, nil
}

func (s *MemoryFilmStore) collectLocked(keep func(*filmRecord) bool) []domain.Film {
	films := make([]domain.Film, 0)
	for _, rec := range s.db.films {
		if keep(rec) {
			films = append(films, s.filmLocked(rec))
		}
	}
	return films
}

// sortByLikesLocked сортирует по убыванию числа лайков, при равенстве по id.
func (s *MemoryFilmStore) sortByLikesLocked(films []domain.Film) {
	sort.Slice(films, func(i, j int) bool {
		li, lj := len(s.db.likes[films[i].ID]), len(s.db.likes[films[j].ID])
		if li != lj {
			return li > lj
		}
		return films[i].ID < films[j].ID
	})
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
