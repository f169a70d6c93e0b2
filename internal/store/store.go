package store

import (
	"context"
	"errors"

	"filmorate/internal/domain"
)

var (
	ErrFilmNotFound     = errors.New("film not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDirectorNotFound = errors.New("director not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrMpaNotFound      = errors.New("mpa rating not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrAlreadyExists    = errors.New("record with these identifying features already exists")
)

// DirectorSort порядок выдачи фильмов режиссера.
type DirectorSort string

const (
	SortByLikes DirectorSort = "likes"
	SortByYear  DirectorSort = "year"
)

// PopularParams фильтры для списка популярных фильмов. Нулевые значения отключают фильтр.
type PopularParams struct {
	Count   int
	GenreID int64
	Year    int
}

// SearchParams параметры поиска. Query уже без учета регистра сравнивается как подстрока.
type SearchParams struct {
	Query      string
	ByTitle    bool
	ByDirector bool
}

// FilmStore хранилище фильмов, их жанров, режиссеров и лайков.
type FilmStore interface {
	Create(ctx context.Context, film *domain.Film) error
	Update(ctx context.Context, film *domain.Film) error
	GetByID(ctx context.Context, id int64) (*domain.Film, error)
	List(ctx context.Context) ([]domain.Film, error)
	Delete(ctx context.Context, id int64) error

	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error

	Popular(ctx context.Context, params PopularParams) ([]domain.Film, error)
	ByDirector(ctx context.Context, directorID int64, sortBy DirectorSort) ([]domain.Film, error)
	Search(ctx context.Context, params SearchParams) ([]domain.Film, error)
	Recommendations(ctx context.Context, userID int64) ([]domain.Film, error)
	Common(ctx context.Context, userID, friendID int64) ([]domain.Film, error)
}

// UserStore хранилище пользователей и направленных связей дружбы.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error

	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]domain.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error)
}

// DirectorStore хранилище режиссеров.
type DirectorStore interface {
	Create(ctx context.Context, director *domain.Director) error
	Update(ctx context.Context, director *domain.Director) error
	GetByID(ctx context.Context, id int64) (*domain.Director, error)
	List(ctx context.Context) ([]domain.Director, error)
	Delete(ctx context.Context, id int64) error
}

// ReferenceStore справочники жанров и рейтингов MPA (только чтение).
type ReferenceStore interface {
	Genres(ctx context.Context) ([]domain.Genre, error)
	Genre(ctx context.Context, id int64) (*domain.Genre, error)
	MpaRatings(ctx context.Context) ([]domain.Mpa, error)
	Mpa(ctx context.Context, id int64) (*domain.Mpa, error)
}

// ReviewStore хранилище отзывов и оценок отзывов.
// Update, SetVote и RemoveVote пересчитывают Useful по сохраненным оценкам.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	List(ctx context.Context, filmID int64, count int) ([]domain.Review, error)
	Delete(ctx context.Context, id int64) error

	SetVote(ctx context.Context, reviewID, userID int64, value int) error
	RemoveVote(ctx context.Context, reviewID, userID int64) error
}

// FeedStore лента событий пользователей.
type FeedStore interface {
	Add(ctx context.Context, event *domain.Event) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Event, error)
}

// Stores набор хранилищ одного бэкенда.
type Stores struct {
	Films     FilmStore
	Users     UserStore
	Directors DirectorStore
	Reference ReferenceStore
	Reviews   ReviewStore
	Feed      FeedStore

	// Ping проверяет доступность бэкенда.
	Ping func(ctx context.Context) error
}
