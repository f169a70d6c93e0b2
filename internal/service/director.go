package service

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"

	"github.com/go-playground/validator/v10"
)

type DirectorService struct {
	log       *slog.Logger
	directors store.DirectorStore
	validate  *validator.Validate
}

func NewDirectorService(log *slog.Logger, stores *store.Stores, validate *validator.Validate) *DirectorService {
	return &DirectorService{log: log, directors: stores.Directors, validate: validate}
}

func (s *DirectorService) Create(ctx context.Context, director domain.Director) (*domain.Director, error) {
	const op = "service.DirectorService.Create"
	log := s.log.With(slog.String("op", op))

	if err := s.validate.StructCtx(ctx, director); err != nil {
		return nil, validationError(err)
	}
	if err := s.directors.Create(ctx, &director); err != nil {
		log.ErrorContext(ctx, "failed to create director", slog.String("error", err.Error()))
		return nil, translate(err)
	}
	log.InfoContext(ctx, "director created", slog.Int64("directorID", director.ID))
	return &director, nil
}

func (s *DirectorService) Update(ctx context.Context, director domain.Director) (*domain.Director, error) {
	if err := s.validate.StructCtx(ctx, director); err != nil {
		return nil, validationError(err)
	}
	if err := s.directors.Update(ctx, &director); err != nil {
		return nil, translate(err)
	}
	return &director, nil
}

func (s *DirectorService) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	director, err := s.directors.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return director, nil
}

func (s *DirectorService) List(ctx context.Context) ([]domain.Director, error) {
	directors, err := s.directors.List(ctx)
	return directors, translate(err)
}

func (s *DirectorService) Delete(ctx context.Context, id int64) error {
	const op = "service.DirectorService.Delete"
	if err := s.directors.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.log.InfoContext(ctx, "director deleted", slog.String("op", op), slog.Int64("directorID", id))
	return nil
}
