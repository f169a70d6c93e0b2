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

// PostgresDirectorStore реализует DirectorStore для PostgreSQL.
type PostgresDirectorStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	err := s.db.QueryRowxContext(ctx, `INSERT INTO directors (name) VALUES ($1) RETURNING director_id`, director.Name).Scan(&director.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create director in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create director: %w", translatePqError(err, nil))
	}
	return nil
}

func (s *PostgresDirectorStore) Update(ctx context.Context, director *domain.Director) error {
	result, err := s.db.ExecContext(ctx, `UPDATE directors SET name = $1 WHERE director_id = $2`, director.Name, director.ID)
	if err != nil {
		return fmt.Errorf("failed to update director: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

func (s *PostgresDirectorStore) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	var director domain.Director
	err := s.db.GetContext(ctx, &director, `SELECT director_id, name FROM directors WHERE director_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, fmt.Errorf("failed to get director by ID: %w", err)
	}
	return &director, nil
}

func (s *PostgresDirectorStore) List(ctx context.Context) ([]domain.Director, error) {
	directors := make([]domain.Director, 0)
	if err := s.db.SelectContext(ctx, &directors, `SELECT director_id, name FROM directors ORDER BY director_id`); err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

// Delete удаляет режиссера; строки film_directors удаляются каскадно.
func (s *PostgresDirectorStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM directors WHERE director_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete director: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrDirectorNotFound
	}
	return nil
}
