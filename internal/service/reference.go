package service

import (
	"context"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// ReferenceService отдает справочники жанров и рейтингов MPA.
type ReferenceService struct {
	reference store.ReferenceStore
}

func NewReferenceService(stores *store.Stores) *ReferenceService {
	return &ReferenceService{reference: stores.Reference}
}

func (s *ReferenceService) Genres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := s.reference.Genres(ctx)
	return genres, translate(err)
}

func (s *ReferenceService) Genre(ctx context.Context, id int64) (*domain.Genre, error) {
	genre, err := s.reference.Genre(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return genre, nil
}

func (s *ReferenceService) MpaRatings(ctx context.Context) ([]domain.Mpa, error) {
	ratings, err := s.reference.MpaRatings(ctx)
	return ratings, translate(err)
}

func (s *ReferenceService) Mpa(ctx context.Context, id int64) (*domain.Mpa, error) {
	mpa, err := s.reference.Mpa(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return mpa, nil
}
