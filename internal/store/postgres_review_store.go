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

// PostgresReviewStore реализует ReviewStore для PostgreSQL.
type PostgresReviewStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

const reviewsQuery = `SELECT review_id, content, is_positive, user_id, film_id, useful FROM reviews`

var reviewFKErrors = map[string]error{
	"reviews_user_id_fkey":        ErrUserNotFound,
	"reviews_film_id_fkey":        ErrFilmNotFound,
	"review_likes_review_id_fkey": ErrReviewNotFound,
	"review_likes_user_id_fkey":   ErrUserNotFound,
}

func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (content, is_positive, user_id, film_id, useful)
              VALUES ($1, $2, $3, $4, 0) RETURNING review_id`
	err := s.db.QueryRowxContext(ctx, query, review.Content, review.IsPositive, review.UserID, review.FilmID).Scan(&review.ID)
	if err != nil {
		err = translatePqError(err, reviewFKErrors)
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrFilmNotFound) {
			return err
		}
		s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review: %w", err)
	}
	review.Useful = 0
	s.logger.InfoContext(ctx, "Review created successfully in DB", slog.Int64("reviewID", review.ID))
	return nil
}

// Update меняет текст и оценку отзыва и пересчитывает useful.
func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, `UPDATE reviews SET content = $1, is_positive = $2 WHERE review_id = $3`,
		review.Content, review.IsPositive, review.ID)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No review found to update in DB", slog.Int64("reviewID", review.ID))
		return ErrReviewNotFound
	}
	if err := recomputeUseful(ctx, tx, review.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review update: %w", err)
	}
	return nil
}

func (s *PostgresReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	err := s.db.GetContext(ctx, &review, reviewsQuery+` WHERE review_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return &review, nil
}

// List возвращает отзывы по фильму (filmID = 0 означает все фильмы) по убыванию useful.
func (s *PostgresReviewStore) List(ctx context.Context, filmID int64, count int) ([]domain.Review, error) {
	reviews := make([]domain.Review, 0)
	query := reviewsQuery + ` WHERE ($1 = 0 OR film_id = $1) ORDER BY useful DESC, review_id LIMIT $2`
	limit := sql.NullInt64{Int64: int64(count), Valid: count > 0} // LIMIT NULL означает без ограничения
	if err := s.db.SelectContext(ctx, &reviews, query, filmID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list reviews from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *PostgresReviewStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// SetVote сохраняет оценку пользователя (заменяя прежнюю) и пересчитывает useful.
func (s *PostgresReviewStore) SetVote(ctx context.Context, reviewID, userID int64, value int) error {
	return s.inTx(ctx, reviewID, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO review_likes (review_id, user_id, value) VALUES ($1, $2, $3)
                                       ON CONFLICT (review_id, user_id) DO UPDATE SET value = EXCLUDED.value`,
			reviewID, userID, value)
		if err != nil {
			err = translatePqError(err, reviewFKErrors)
			if errors.Is(err, ErrReviewNotFound) || errors.Is(err, ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("failed to save review vote: %w", err)
		}
		return nil
	})
}

func (s *PostgresReviewStore) RemoveVote(ctx context.Context, reviewID, userID int64) error {
	return s.inTx(ctx, reviewID, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_likes WHERE review_id = $1 AND user_id = $2`, reviewID, userID); err != nil {
			return fmt.Errorf("failed to remove review vote: %w", err)
		}
		return nil
	})
}

// inTx выполняет изменение оценок и пересчет useful в одной транзакции.
func (s *PostgresReviewStore) inTx(ctx context.Context, reviewID int64, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ok, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE review_id = $1)`, reviewID)
	if err != nil {
		return fmt.Errorf("failed to check review: %w", err)
	}
	if !ok {
		return ErrReviewNotFound
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := recomputeUseful(ctx, tx, reviewID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review vote: %w", err)
	}
	return nil
}

// recomputeUseful записывает в reviews.useful сумму текущих оценок.
func recomputeUseful(ctx context.Context, tx *sqlx.Tx, reviewID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE reviews
        SET useful = (SELECT COALESCE(SUM(value), 0) FROM review_likes WHERE review_id = $1)
        WHERE review_id = $1`, reviewID)
	if err != nil {
		return fmt.Errorf("failed to recompute review usefulness: %w", err)
	}
	return nil
}
