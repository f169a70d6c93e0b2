package service

import (
	"context"
	"log/slog"
	"strings"

	"filmorate/internal/domain"
	"filmorate/internal/store"

	"github.com/go-playground/validator/v10"
)

type UserService struct {
	log      *slog.Logger
	users    store.UserStore
	feed     store.FeedStore
	films    *FilmService
	validate *validator.Validate
}

func NewUserService(log *slog.Logger, stores *store.Stores, films *FilmService, validate *validator.Validate) *UserService {
	return &UserService{
		log:      log,
		users:    stores.Users,
		feed:     stores.Feed,
		films:    films,
		validate: validate,
	}
}

func (s *UserService) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	const op = "service.UserService.Create"
	log := s.log.With(slog.String("op", op), slog.String("login", user.Login))

	if err := s.prepare(ctx, &user); err != nil {
		log.InfoContext(ctx, "user rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	if err := s.users.Create(ctx, &user); err != nil {
		log.ErrorContext(ctx, "failed to create user", slog.String("error", err.Error()))
		return nil, translate(err)
	}
	log.InfoContext(ctx, "user created", slog.Int64("userID", user.ID))
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, user domain.User) (*domain.User, error) {
	const op = "service.UserService.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("userID", user.ID))

	if err := s.prepare(ctx, &user); err != nil {
		log.InfoContext(ctx, "user rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	if err := s.users.Update(ctx, &user); err != nil {
		log.WarnContext(ctx, "failed to update user", slog.String("error", err.Error()))
		return nil, translate(err)
	}
	return &user, nil
}

// prepare валидирует пользователя; пустое имя заменяется логином.
func (s *UserService) prepare(ctx context.Context, user *domain.User) error {
	if err := s.validate.StructCtx(ctx, user); err != nil {
		return validationError(err)
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	return users, translate(err)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	const op = "service.UserService.Delete"
	if err := s.users.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.log.InfoContext(ctx, "user deleted", slog.String("op", op), slog.Int64("userID", id))
	return nil
}

// AddFriend добавляет friendID в друзья id. Дружба односторонняя.
func (s *UserService) AddFriend(ctx context.Context, id, friendID int64) error {
	const op = "service.UserService.AddFriend"
	log := s.log.With(slog.String("op", op), slog.Int64("userID", id), slog.Int64("friendID", friendID))

	if id == friendID {
		return invalid("user cannot be a friend of themselves")
	}
	if err := s.ensureUsers(ctx, id, friendID); err != nil {
		return err
	}
	if err := s.users.AddFriend(ctx, id, friendID); err != nil {
		log.ErrorContext(ctx, "failed to add friend", slog.String("error", err.Error()))
		return translate(err)
	}
	return addEvent(ctx, s.feed, log, id, friendID, domain.EventFriend, domain.OperationAdd)
}

// RemoveFriend удаляет только направление id -> friendID.
func (s *UserService) RemoveFriend(ctx context.Context, id, friendID int64) error {
	const op = "service.UserService.RemoveFriend"
	log := s.log.With(slog.String("op", op), slog.Int64("userID", id), slog.Int64("friendID", friendID))

	if err := s.ensureUsers(ctx, id, friendID); err != nil {
		return err
	}
	if err := s.users.RemoveFriend(ctx, id, friendID); err != nil {
		log.ErrorContext(ctx, "failed to remove friend", slog.String("error", err.Error()))
		return translate(err)
	}
	return addEvent(ctx, s.feed, log, id, friendID, domain.EventFriend, domain.OperationRemove)
}

func (s *UserService) Friends(ctx context.Context, id int64) ([]domain.User, error) {
	if err := s.ensureUsers(ctx, id); err != nil {
		return nil, err
	}
	friends, err := s.users.Friends(ctx, id)
	return friends, translate(err)
}

func (s *UserService) CommonFriends(ctx context.Context, id, otherID int64) ([]domain.User, error) {
	if err := s.ensureUsers(ctx, id, otherID); err != nil {
		return nil, err
	}
	friends, err := s.users.CommonFriends(ctx, id, otherID)
	return friends, translate(err)
}

func (s *UserService) Feed(ctx context.Context, id int64) ([]domain.Event, error) {
	if err := s.ensureUsers(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.feed.ListByUser(ctx, id)
	return events, translate(err)
}

func (s *UserService) Recommendations(ctx context.Context, id int64) ([]domain.Film, error) {
	return s.films.Recommendations(ctx, id)
}

// CommonFilms фильмы, которые лайкнули оба пользователя; обслуживает GET /films/common.
func (s *UserService) CommonFilms(ctx context.Context, id, friendID int64) ([]domain.Film, error) {
	return s.films.Common(ctx, id, friendID)
}

func (s *UserService) ensureUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return translate(err)
		}
	}
	return nil
}
