package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresFilmStore реализует FilmStore для PostgreSQL.
type PostgresFilmStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

const filmsQuery = `SELECT f.film_id, f.name, f.description, f.release_date, f.duration, m.mpa_id, m.name AS mpa_name
                     FROM films f JOIN mpa m ON m.mpa_id = f.mpa_id`

// likesOrder сортировка по популярности; требует LEFT JOIN likes l и GROUP BY f.film_id, m.mpa_id.
const likesOrder = ` GROUP BY f.film_id, m.mpa_id ORDER BY COUNT(l.user_id) DESC, f.film_id`

var filmFKErrors = map[string]error{
	"films_mpa_id_fkey":               ErrMpaNotFound,
	"film_genres_genre_id_fkey":       ErrGenreNotFound,
	"film_directors_director_id_fkey": ErrDirectorNotFound,
	"likes_film_id_fkey":              ErrFilmNotFound,
	"likes_user_id_fkey":              ErrUserNotFound,
}

type filmRow struct {
	ID          int64       `db:"film_id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	ReleaseDate domain.Date `db:"release_date"`
	Duration    int         `db:"duration"`
	MpaID       int64       `db:"mpa_id"`
	MpaName     string      `db:"mpa_name"`
}

// Create сохраняет фильм вместе с жанрами и режиссерами в одной транзакции.
func (s *PostgresFilmStore) Create(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO films (name, description, release_date, duration, mpa_id)
              VALUES ($1, $2, $3, $4, $5) RETURNING film_id`
	s.logger.DebugContext(ctx, "Executing Create film query", slog.String("name", film.Name))
	err = tx.QueryRowxContext(ctx, query, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID).Scan(&film.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create film in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create film: %w", translatePqError(err, filmFKErrors))
	}
	if err := s.replaceLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit film creation: %w", err)
	}
	s.logger.InfoContext(ctx, "Film created successfully in DB", slog.Int64("filmID", film.ID))
	return nil
}

// Update полностью заменяет фильм, его жанры и режиссеров.
func (s *PostgresFilmStore) Update(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
              WHERE film_id = $6`
	result, err := tx.ExecContext(ctx, query, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update film in DB", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update film: %w", translatePqError(err, filmFKErrors))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No film found to update in DB", slog.Int64("filmID", film.ID))
		return ErrFilmNotFound
	}
	if err := s.replaceLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit film update: %w", err)
	}
	return nil
}

// replaceLinks пересоздает строки film_genres и film_directors.
func (s *PostgresFilmStore) replaceLinks(ctx context.Context, tx *sqlx.Tx, film *domain.Film) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("failed to clear film genres: %w", err)
	}
	if ids := film.GenreIDs(); len(ids) > 0 {
		_, err := tx.ExecContext(ctx, `INSERT INTO film_genres (film_id, genre_id) SELECT $1, unnest($2::bigint[])`, film.ID, pq.Array(ids))
		if err != nil {
			return fmt.Errorf("failed to save film genres: %w", translatePqError(err, filmFKErrors))
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM film_directors WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("failed to clear film directors: %w", err)
	}
	if ids := film.DirectorIDs(); len(ids) > 0 {
		_, err := tx.ExecContext(ctx, `INSERT INTO film_directors (film_id, director_id) SELECT $1, unnest($2::bigint[])`, film.ID, pq.Array(ids))
		if err != nil {
			return fmt.Errorf("failed to save film directors: %w", translatePqError(err, filmFKErrors))
		}
	}
	return nil
}

// GetByID находит фильм по его ID.
func (s *PostgresFilmStore) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	var row filmRow
	s.logger.DebugContext(ctx, "Executing GetFilmByID query", slog.Int64("filmID", id))
	err := s.db.GetContext(ctx, &row, filmsQuery+` WHERE f.film_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Film not found by ID in DB", slog.Int64("filmID", id))
			return nil, ErrFilmNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get film by ID from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}
	films, err := s.hydrate(ctx, []filmRow{row})
	if err != nil {
		return nil, err
	}
	return &films[0], nil
}

func (s *PostgresFilmStore) List(ctx context.Context) ([]domain.Film, error) {
	return s.selectFilms(ctx, filmsQuery+` ORDER BY f.film_id`)
}

// Delete удаляет фильм; связанные строки удаляются каскадно.
func (s *PostgresFilmStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM films WHERE film_id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete film in DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete film: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrFilmNotFound
	}
	return nil
}

func (s *PostgresFilmStore) AddLike(ctx context.Context, filmID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO likes (film_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, filmID, userID)
	if err != nil {
		err = translatePqError(err, filmFKErrors)
		if errors.Is(err, ErrFilmNotFound) || errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

func (s *PostgresFilmStore) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`, filmID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// Popular возвращает самые популярные фильмы с необязательными фильтрами по жанру и году.
func (s *PostgresFilmStore) Popular(ctx context.Context, params PopularParams) ([]domain.Film, error) {
	query := filmsQuery + ` LEFT JOIN likes l ON l.film_id = f.film_id`

	var args []interface{}
	var conditions []string
	argId := 1

	if params.GenreID != 0 {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM film_genres fg WHERE fg.film_id = f.film_id AND fg.genre_id = $%d)", argId))
		args = append(args, params.GenreID)
		argId++
	}
	if params.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM f.release_date) = $%d", argId))
		args = append(args, params.Year)
		argId++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += likesOrder
	if params.Count > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argId)
		args = append(args, params.Count)
	}

	return s.selectFilms(ctx, query, args...)
}

func (s *PostgresFilmStore) ByDirector(ctx context.Context, directorID int64, sortBy DirectorSort) ([]domain.Film, error) {
	ok, err := exists(ctx, s.db, `SELECT EXISTS (SELECT 1 FROM directors WHERE director_id = $1)`, directorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check director: %w", err)
	}
	if !ok {
		return nil, ErrDirectorNotFound
	}

	query := filmsQuery + ` JOIN film_directors fd ON fd.film_id = f.film_id AND fd.director_id = $1`
	if sortBy == SortByLikes {
		query += ` LEFT JOIN likes l ON l.film_id = f.film_id` + likesOrder
	} else {
		query += ` ORDER BY f.release_date, f.film_id`
	}
	return s.selectFilms(ctx, query, directorID)
}

// Search ищет подстроку без учета регистра в названии и/или в именах режиссеров.
func (s *PostgresFilmStore) Search(ctx context.Context, params SearchParams) ([]domain.Film, error) {
	var conditions []string
	if params.ByTitle {
		conditions = append(conditions, `LOWER(f.name) LIKE $1 ESCAPE '\'`)
	}
	if params.ByDirector {
		conditions = append(conditions, `EXISTS (SELECT 1 FROM film_directors fd JOIN directors d ON d.director_id = fd.director_id
                                         WHERE fd.film_id = f.film_id AND LOWER(d.name) LIKE $1 ESCAPE '\')`)
	}
	if len(conditions) == 0 {
		return []domain.Film{}, nil
	}
	query := filmsQuery + ` LEFT JOIN likes l ON l.film_id = f.film_id WHERE ` +
		strings.Join(conditions, " OR ") + likesOrder
	pattern := "%" + likeEscaper.Replace(strings.ToLower(params.Query)) + "%"
	return s.selectFilms(ctx, query, pattern)
}

// likeEscaper экранирует метасимволы LIKE: подстрока ищется буквально, как в памяти.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Recommendations находит пользователя с наибольшим числом общих лайков
// и возвращает понравившиеся ему фильмы, которые userID еще не лайкал.
func (s *PostgresFilmStore) Recommendations(ctx context.Context, userID int64) ([]domain.Film, error) {
	query := filmsQuery + ` JOIN likes rl ON rl.film_id = f.film_id
        WHERE rl.user_id = (
            SELECT l2.user_id
            FROM likes l1 JOIN likes l2 ON l2.film_id = l1.film_id AND l2.user_id <> l1.user_id
            WHERE l1.user_id = $1
            GROUP BY l2.user_id
            ORDER BY COUNT(*) DESC, l2.user_id
            LIMIT 1)
          AND f.film_id NOT IN (SELECT film_id FROM likes WHERE user_id = $1)
        ORDER BY f.film_id`
	return s.selectFilms(ctx, query, userID)
}

func (s *PostgresFilmStore) Common(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	query := filmsQuery + `
        JOIN likes l1 ON l1.film_id = f.film_id AND l1.user_id = $1
        JOIN likes l2 ON l2.film_id = f.film_id AND l2.user_id = $2
        LEFT JOIN likes l ON l.film_id = f.film_id` + likesOrder
	return s.selectFilms(ctx, query, userID, friendID)
}

func (s *PostgresFilmStore) selectFilms(ctx context.Context, query string, args ...interface{}) ([]domain.Film, error) {
	var rows []filmRow
	s.logger.DebugContext(ctx, "Executing select films query", slog.String("query", query), slog.Any("args", args))
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to select films from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to select films: %w", err)
	}
	return s.hydrate(ctx, rows)
}

type filmGenreRow struct {
	FilmID int64 `db:"film_id"`
	domain.Genre
}

type filmDirectorRow struct {
	FilmID int64 `db:"film_id"`
	domain.Director
}

// hydrate дополняет строки фильмов жанрами и режиссерами двумя запросами на весь список.
func (s *PostgresFilmStore) hydrate(ctx context.Context, rows []filmRow) ([]domain.Film, error) {
	films := make([]domain.Film, 0, len(rows))
	if len(rows) == 0 {
		return films, nil
	}
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	var genreRows []filmGenreRow
	err := s.db.SelectContext(ctx, &genreRows, `SELECT fg.film_id, g.genre_id, g.name
        FROM film_genres fg JOIN genres g ON g.genre_id = fg.genre_id
        WHERE fg.film_id = ANY($1) ORDER BY fg.film_id, g.genre_id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load film genres: %w", err)
	}
	genres := make(map[int64][]domain.Genre)
	for _, r := range genreRows {
		genres[r.FilmID] = append(genres[r.FilmID], r.Genre)
	}

	var directorRows []filmDirectorRow
	err = s.db.SelectContext(ctx, &directorRows, `SELECT fd.film_id, d.director_id, d.name
        FROM film_directors fd JOIN directors d ON d.director_id = fd.director_id
        WHERE fd.film_id = ANY($1) ORDER BY fd.film_id, d.director_id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load film directors: %w", err)
	}
	directors := make(map[int64][]domain.Director)
	for _, r := range directorRows {
		directors[r.FilmID] = append(directors[r.FilmID], r.Director)
	}

	for _, r := range rows {
		film := domain.Film{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			ReleaseDate: r.ReleaseDate,
			Duration:    r.Duration,
			Mpa:         &domain.Mpa{ID: r.MpaID, Name: r.MpaName},
			Genres:      genres[r.ID],
			Directors:   directors[r.ID],
		}
		if film.Genres == nil {
			film.Genres = []domain.Genre{}
		}
		if film.Directors == nil {
			film.Directors = []domain.Director{}
		}
		films = append(films, film)
	}
	return films, nil
}
