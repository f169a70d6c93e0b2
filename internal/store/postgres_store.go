package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые обрабатываются явно.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// NewPostgresStores создает набор хранилищ поверх одного пула соединений.
func NewPostgresStores(db *sqlx.DB, logger *slog.Logger) (*Stores, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &Stores{
		Films:     &PostgresFilmStore{db: db, logger: logger},
		Users:     &PostgresUserStore{db: db, logger: logger},
		Directors: &PostgresDirectorStore{db: db, logger: logger},
		Reference: &PostgresReferenceStore{db: db, logger: logger},
		Reviews:   &PostgresReviewStore{db: db, logger: logger},
		Feed:      &PostgresFeedStore{db: db, logger: logger},
		Ping:      db.PingContext,
	}, nil
}

// translatePqError переводит нарушения ограничений в ошибки пакета store.
// fkErrors сопоставляет имя внешнего ключа (например, "likes_user_id_fkey") с ошибкой.
func translatePqError(err error, fkErrors map[string]error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return ErrAlreadyExists
	case pqForeignKeyViolation:
		if mapped, ok := fkErrors[pqErr.Constraint]; ok {
			return mapped
		}
	}
	return err
}

// exists выполняет запрос вида SELECT EXISTS(...).
func exists(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (bool, error) {
	var ok bool
	if err := sqlx.GetContext(ctx, q, &ok, query, args...); err != nil {
		return false, err
	}
	return ok, nil
}
