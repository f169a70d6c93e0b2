package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresReferenceStore читает справочники genres и mpa.
type PostgresReferenceStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresReferenceStore) Genres(ctx context.Context) ([]domain.Genre, error) {
	genres := make([]domain.Genre, 0)
	if err := s.db.SelectContext(ctx, &genres, `SELECT genre_id, name FROM genres ORDER BY genre_id`); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (s *PostgresReferenceStore) Genre(ctx context.Context, id int64) (*domain.Genre, error) {
	var genre domain.Genre
	err := s.db.GetContext(ctx, &genre, `SELECT genre_id, name FROM genres WHERE genre_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to get genre by ID: %w", err)
	}
	return &genre, nil
}

func (s *PostgresReferenceStore) MpaRatings(ctx context.Context) ([]domain.Mpa, error) {
	ratings := make([]domain.Mpa, 0)
	if err := s.db.SelectContext(ctx, &ratings, `SELECT mpa_id, name FROM mpa ORDER BY mpa_id`); err != nil {
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	return ratings, nil
}

func (s *PostgresReferenceStore) Mpa(ctx context.Context, id int64) (*domain.Mpa, error) {
	var mpa domain.Mpa
	err := s.db.GetContext(ctx, &mpa, `SELECT mpa_id, name FROM mpa WHERE mpa_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMpaNotFound
		}
		return nil, fmt.Errorf("failed to get mpa by ID: %w", err)
	}
	return &mpa, nil
}
