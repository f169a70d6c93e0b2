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

// PostgresUserStore реализует UserStore для PostgreSQL.
type PostgresUserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

const usersQuery = `SELECT u.user_id, u.email, u.login, u.name, u.birthday FROM users u`

var friendFKErrors = map[string]error{
	"friends_user_id_fkey":   ErrUserNotFound,
	"friends_friend_id_fkey": ErrUserNotFound,
}

func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4) RETURNING user_id`

	s.logger.DebugContext(ctx, "Executing Create user query", slog.String("login", user.Login))
	err := s.db.QueryRowxContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID)
	if err != nil {
		err = translatePqError(err, nil)
		if errors.Is(err, ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "User already exists (unique constraint violation in DB)", slog.String("login", user.Login))
			return ErrAlreadyExists
		}
		s.logger.ErrorContext(ctx, "Failed to create user in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.InfoContext(ctx, "User created successfully in DB", slog.Int64("userID", user.ID))
	return nil
}

func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE user_id = $5`

	result, err := s.db.ExecContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday, user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update user in DB", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update user: %w", translatePqError(err, nil))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No user found to update in DB", slog.Int64("userID", user.ID))
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, usersQuery+` WHERE u.user_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "User not found by ID in DB", slog.Int64("userID", id))
			return nil, ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get user by ID from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]domain.User, error) {
	return s.selectUsers(ctx, usersQuery+` ORDER BY u.user_id`)
}

// Delete удаляет пользователя. Его оценки отзывов удаляются каскадно,
// поэтому useful затронутых отзывов пересчитывается в той же транзакции.
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var votedReviews []int64
	if err := tx.SelectContext(ctx, &votedReviews, `SELECT review_id FROM review_likes WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to load user votes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete user in DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	for _, reviewID := range votedReviews {
		if err := recomputeUseful(ctx, tx, reviewID); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user deletion: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) AddFriend(ctx context.Context, userID, friendID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, friendID)
	if err != nil {
		err = translatePqError(err, friendFKErrors)
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to add friend: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM friends WHERE user_id = $1 AND friend_id = $2`, userID, friendID); err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) Friends(ctx context.Context, userID int64) ([]domain.User, error) {
	query := usersQuery + ` JOIN friends fr ON fr.friend_id = u.user_id WHERE fr.user_id = $1 ORDER BY u.user_id`
	return s.selectUsers(ctx, query, userID)
}

func (s *PostgresUserStore) CommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error) {
	query := usersQuery + `
        JOIN friends f1 ON f1.friend_id = u.user_id AND f1.user_id = $1
        JOIN friends f2 ON f2.friend_id = u.user_id AND f2.user_id = $2
        ORDER BY u.user_id`
	return s.selectUsers(ctx, query, userID, otherID)
}

func (s *PostgresUserStore) selectUsers(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to select users from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	return users, nil
}
