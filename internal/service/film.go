package service

import (
	"context"
	"log/slog"
	"strings"

	"filmorate/internal/domain"
	"filmorate/internal/store"

	"github.com/go-playground/validator/v10"
)

// DefaultCount размер выборки популярных фильмов и отзывов по умолчанию.
const DefaultCount = 10

type FilmService struct {
	log       *slog.Logger
	films     store.FilmStore
	users     store.UserStore
	directors store.DirectorStore
	reference store.ReferenceStore
	feed      store.FeedStore
	validate  *validator.Validate
}

func NewFilmService(log *slog.Logger, stores *store.Stores, validate *validator.Validate) *FilmService {
	return &FilmService{
		log:       log,
		films:     stores.Films,
		users:     stores.Users,
		directors: stores.Directors,
		reference: stores.Reference,
		feed:      stores.Feed,
		validate:  validate,
	}
}

func (s *FilmService) Create(ctx context.Context, film domain.Film) (*domain.Film, error) {
	const op = "service.FilmService.Create"
	log := s.log.With(slog.String("op", op), slog.String("name", film.Name))

	if err := s.check(ctx, &film); err != nil {
		log.InfoContext(ctx, "film rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	if err := s.films.Create(ctx, &film); err != nil {
		log.ErrorContext(ctx, "failed to create film", slog.String("error", err.Error()))
		return nil, translate(err)
	}
	log.InfoContext(ctx, "film created", slog.Int64("filmID", film.ID))
	return s.GetByID(ctx, film.ID)
}

func (s *FilmService) Update(ctx context.Context, film domain.Film) (*domain.Film, error) {
	const op = "service.FilmService.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("filmID", film.ID))

	if err := s.check(ctx, &film); err != nil {
		log.InfoContext(ctx, "film rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	if err := s.films.Update(ctx, &film); err != nil {
		log.WarnContext(ctx, "failed to update film", slog.String("error", err.Error()))
		return nil, translate(err)
	}
	return s.GetByID(ctx, film.ID)
}

// check валидирует поля фильма и проверяет, что рейтинг, жанры и режиссеры существуют.
func (s *FilmService) check(ctx context.Context, film *domain.Film) error {
	if err := s.validate.StructCtx(ctx, film); err != nil {
		return validationError(err)
	}
	if _, err := s.reference.Mpa(ctx, film.Mpa.ID); err != nil {
		return translate(err)
	}
	for _, id := range film.GenreIDs() {
		if _, err := s.reference.Genre(ctx, id); err != nil {
			return translate(err)
		}
	}
	for _, id := range film.DirectorIDs() {
		if _, err := s.directors.GetByID(ctx, id); err != nil {
			return translate(err)
		}
	}
	return nil
}

func (s *FilmService) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	film, err := s.films.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return film, nil
}

func (s *FilmService) List(ctx context.Context) ([]domain.Film, error) {
	films, err := s.films.List(ctx)
	return films, translate(err)
}

func (s *FilmService) Delete(ctx context.Context, id int64) error {
	const op = "service.FilmService.Delete"
	if err := s.films.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.log.InfoContext(ctx, "film deleted", slog.String("op", op), slog.Int64("filmID", id))
	return nil
}

func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	return s.like(ctx, filmID, userID, domain.OperationAdd)
}

func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	return s.like(ctx, filmID, userID, domain.OperationRemove)
}

func (s *FilmService) like(ctx context.Context, filmID, userID int64, operation domain.Operation) error {
	const op = "service.FilmService.like"
	log := s.log.With(slog.String("op", op), slog.Int64("filmID", filmID), slog.Int64("userID", userID))

	if _, err := s.films.GetByID(ctx, filmID); err != nil {
		return translate(err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return translate(err)
	}

	var err error
	if operation == domain.OperationAdd {
		err = s.films.AddLike(ctx, filmID, userID)
	} else {
		err = s.films.RemoveLike(ctx, filmID, userID)
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to change like", slog.String("error", err.Error()))
		return translate(err)
	}
	return addEvent(ctx, s.feed, log, userID, filmID, domain.EventLike, operation)
}

func (s *FilmService) Popular(ctx context.Context, count int, genreID int64, year int) ([]domain.Film, error) {
	if count <= 0 {
		return nil, invalid("count must be positive")
	}
	films, err := s.films.Popular(ctx, store.PopularParams{Count: count, GenreID: genreID, Year: year})
	return films, translate(err)
}

// ByDirector возвращает фильмы режиссера. Пустой sortBy означает сортировку по году.
func (s *FilmService) ByDirector(ctx context.Context, directorID int64, sortBy string) ([]domain.Film, error) {
	sort := store.DirectorSort(sortBy)
	switch sort {
	case "":
		sort = store.SortByYear
	case store.SortByYear, store.SortByLikes:
	default:
		return nil, invalid("sortBy must be one of likes, year")
	}
	films, err := s.films.ByDirector(ctx, directorID, sort)
	if err != nil {
		return nil, translate(err)
	}
	return films, nil
}

// Search ищет по подстроке без учета регистра. by перечисляет через запятую title и/или director.
func (s *FilmService) Search(ctx context.Context, query, by string) ([]domain.Film, error) {
	params := store.SearchParams{Query: strings.TrimSpace(query)}
	if params.Query == "" {
		return nil, invalid("query must not be blank")
	}
	for _, field := range strings.Split(by, ",") {
		switch strings.TrimSpace(field) {
		case "title":
			params.ByTitle = true
		case "director":
			params.ByDirector = true
		default:
			return nil, invalid("by must be title, director or both separated by comma")
		}
	}
	films, err := s.films.Search(ctx, params)
	return films, translate(err)
}

func (s *FilmService) Recommendations(ctx context.Context, userID int64) ([]domain.Film, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, translate(err)
	}
	films, err := s.films.Recommendations(ctx, userID)
	return films, translate(err)
}

func (s *FilmService) Common(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	for _, id := range []int64{userID, friendID} {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return nil, translate(err)
		}
	}
	films, err := s.films.Common(ctx, userID, friendID)
	return films, translate(err)
}

// addEvent пишет событие в ленту пользователя. Ошибка ленты возвращается вызывающему,
// хотя основное изменение уже сохранено.
func addEvent(ctx context.Context, feed store.FeedStore, log *slog.Logger, userID, entityID int64, eventType domain.EventType, operation domain.Operation) error {
	event := domain.Event{UserID: userID, EntityID: entityID, EventType: eventType, Operation: operation}
	if err := feed.Add(ctx, &event); err != nil {
		log.ErrorContext(ctx, "failed to write feed event",
			slog.String("eventType", string(eventType)),
			slog.String("operation", string(operation)),
			slog.String("error", err.Error()))
		return translate(err)
	}
	return nil
}
