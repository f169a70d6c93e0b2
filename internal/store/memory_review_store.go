package store

import (
	"context"
	"sort"

	"filmorate/internal/domain"
)

// MemoryReviewStore реализует ReviewStore поверх memoryDB.
type MemoryReviewStore struct {
	db *memoryDB
}

func copyReview(r domain.Review) domain.Review {
	if r.IsPositive != nil {
		v := *r.IsPositive
		r.IsPositive = &v
	}
	return r
}

func (s *MemoryReviewStore) Create(ctx context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[review.UserID]; !ok {
		return ErrUserNotFound
	}
	if _, ok := s.db.films[review.FilmID]; !ok {
		return ErrFilmNotFound
	}
	s.db.lastReviewID++
	review.ID = s.db.lastReviewID
	review.Useful = 0
	s.db.reviews[review.ID] = copyReview(*review)
	return nil
}

// Update меняет только текст и оценку отзыва; автор и фильм остаются прежними.
func (s *MemoryReviewStore) Update(ctx context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored, ok := s.db.reviews[review.ID]
	if !ok {
		return ErrReviewNotFound
	}
	stored.Content = review.Content
	stored.IsPositive = review.IsPositive
	s.db.reviews[review.ID] = copyReview(stored)
	recomputeUsefulLocked(s.db, review.ID)
	return nil
}

func (s *MemoryReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	r, ok := s.db.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	r = copyReview(r)
	return &r, nil
}

func (s *MemoryReviewStore) List(ctx context.Context, filmID int64, count int) ([]domain.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	reviews := make([]domain.Review, 0)
	for _, r := range s.db.reviews {
		if filmID == 0 || r.FilmID == filmID {
			reviews = append(reviews, copyReview(r))
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].Useful != reviews[j].Useful {
			return reviews[i].Useful > reviews[j].Useful
		}
		return reviews[i].ID < reviews[j].ID
	})
	if count > 0 && len(reviews) > count {
		reviews = reviews[:count]
	}
	return reviews, nil
}

func (s *MemoryReviewStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(s.db.reviews, id)
	delete(s.db.votes, id)
	return nil
}

func (s *MemoryReviewStore) SetVote(ctx context.Context, reviewID, userID int64, value int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.reviews[reviewID]; !ok {
		return ErrReviewNotFound
	}
	if _, ok := s.db.users[userID]; !ok {
		return ErrUserNotFound
	}
	if s.db.votes[reviewID] == nil {
		s.db.votes[reviewID] = make(map[int64]int)
	}
	s.db.votes[reviewID][userID] = value
	recomputeUsefulLocked(s.db, reviewID)
	return nil
}

func (s *MemoryReviewStore) RemoveVote(ctx context.Context, reviewID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.reviews[reviewID]; !ok {
		return ErrReviewNotFound
	}
	delete(s.db.votes[reviewID], userID)
	recomputeUsefulLocked(s.db, reviewID)
	return nil
}

// recomputeUsefulLocked пересчитывает Useful как сумму текущих оценок.
func recomputeUsefulLocked(db *memoryDB, reviewID int64) {
	r, ok := db.reviews[reviewID]
	if !ok {
		return
	}
	useful := 0
	for _, v := range db.votes[reviewID] {
		useful += v
	}
	r.Useful = useful
	db.reviews[reviewID] = r
}
