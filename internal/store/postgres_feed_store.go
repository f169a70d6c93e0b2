package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresFeedStore реализует FeedStore для PostgreSQL.
// Типы событий и операций хранятся в справочниках events_types и operations.
type PostgresFeedStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var feedFKErrors = map[string]error{
	"feeds_user_id_fkey": ErrUserNotFound,
}

func (s *PostgresFeedStore) Add(ctx context.Context, event *domain.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	query := `INSERT INTO feeds (time_stamp, user_id, entity_id, event_type_id, operation_id)
              SELECT $1, $2, $3, et.event_type_id, o.operation_id
              FROM events_types et, operations o
              WHERE et.name = $4 AND o.name = $5
              RETURNING event_id`
	err := s.db.QueryRowxContext(ctx, query,
		event.Timestamp, event.UserID, event.EntityID, string(event.EventType), string(event.Operation),
	).Scan(&event.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to append feed event",
			slog.Int64("userID", event.UserID),
			slog.String("eventType", string(event.EventType)),
			slog.String("operation", string(event.Operation)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to add feed event: %w", translatePqError(err, feedFKErrors))
	}
	return nil
}

func (s *PostgresFeedStore) ListByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	events := make([]domain.Event, 0)
	query := `SELECT f.event_id, f.time_stamp, f.user_id, f.entity_id, et.name AS event_type, o.name AS operation
              FROM feeds f
              JOIN events_types et ON et.event_type_id = f.event_type_id
              JOIN operations o ON o.operation_id = f.operation_id
              WHERE f.user_id = $1
              ORDER BY f.event_id`
	if err := s.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list feed events: %w", err)
	}
	return events, nil
}
