package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter собирает маршруты Filmorate. Статические пути (/films/popular и т.п.)
// регистрируются раньше /films/{id}, mux выбирает первый совпавший маршрут.
// Все маршруты висят на корневом роутере: у подроутеров mux неверный метод
// не доходит до MethodNotAllowedHandler корня.
func NewRouter(h *Handler, m *Metrics) *mux.Router {
	router := mux.NewRouter()

	chain := []mux.MiddlewareFunc{h.RequestIDMiddleware, h.RecoverMiddleware, h.AccessLogMiddleware}
	if m != nil {
		chain = append(chain, m.Middleware)
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	router.Use(chain...)

	// Фильмы
	router.HandleFunc("/films", h.GetFilms).Methods(http.MethodGet)
	router.HandleFunc("/films", h.CreateFilm).Methods(http.MethodPost)
	router.HandleFunc("/films", h.UpdateFilm).Methods(http.MethodPut)
	router.HandleFunc("/films/popular", h.GetPopularFilms).Methods(http.MethodGet)
	router.HandleFunc("/films/search", h.SearchFilms).Methods(http.MethodGet)
	router.HandleFunc("/films/common", h.GetCommonFilms).Methods(http.MethodGet)
	router.HandleFunc("/films/director/{directorId}", h.GetDirectorFilms).Methods(http.MethodGet)
	router.HandleFunc("/films/{id}", h.GetFilmByID).Methods(http.MethodGet)
	router.HandleFunc("/films/{id}", h.DeleteFilm).Methods(http.MethodDelete)
	router.HandleFunc("/films/{id}/like/{userId}", h.AddFilmLike).Methods(http.MethodPut)
	router.HandleFunc("/films/{id}/like/{userId}", h.RemoveFilmLike).Methods(http.MethodDelete)

	// Пользователи
	router.HandleFunc("/users", h.GetUsers).Methods(http.MethodGet)
	router.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	router.HandleFunc("/users", h.UpdateUser).Methods(http.MethodPut)
	router.HandleFunc("/users/{id}", h.GetUserByID).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.DeleteUser).Methods(http.MethodDelete)
	router.HandleFunc("/users/{id}/friends", h.GetFriends).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/friends/common/{otherId}", h.GetCommonFriends).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/friends/{friendId}", h.AddFriend).Methods(http.MethodPut)
	router.HandleFunc("/users/{id}/friends/{friendId}", h.RemoveFriend).Methods(http.MethodDelete)
	router.HandleFunc("/users/{id}/feed", h.GetFeed).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/recommendations", h.GetRecommendations).Methods(http.MethodGet)

	// Режиссеры
	router.HandleFunc("/directors", h.GetDirectors).Methods(http.MethodGet)
	router.HandleFunc("/directors", h.CreateDirector).Methods(http.MethodPost)
	router.HandleFunc("/directors", h.UpdateDirector).Methods(http.MethodPut)
	router.HandleFunc("/directors/{id}", h.GetDirectorByID).Methods(http.MethodGet)
	router.HandleFunc("/directors/{id}", h.DeleteDirector).Methods(http.MethodDelete)

	// Отзывы
	router.HandleFunc("/reviews", h.GetReviews).Methods(http.MethodGet)
	router.HandleFunc("/reviews", h.CreateReview).Methods(http.MethodPost)
	router.HandleFunc("/reviews", h.UpdateReview).Methods(http.MethodPut)
	router.HandleFunc("/reviews/{id}", h.GetReviewByID).Methods(http.MethodGet)
	router.HandleFunc("/reviews/{id}", h.DeleteReview).Methods(http.MethodDelete)
	router.HandleFunc("/reviews/{id}/like/{userId}", h.LikeReview).Methods(http.MethodPut)
	router.HandleFunc("/reviews/{id}/like/{userId}", h.RemoveReviewVote).Methods(http.MethodDelete)
	router.HandleFunc("/reviews/{id}/dislike/{userId}", h.DislikeReview).Methods(http.MethodPut)
	router.HandleFunc("/reviews/{id}/dislike/{userId}", h.RemoveReviewVote).Methods(http.MethodDelete)

	// Справочники
	router.HandleFunc("/genres", h.GetGenres).Methods(http.MethodGet)
	router.HandleFunc("/genres/{id}", h.GetGenreByID).Methods(http.MethodGet)
	router.HandleFunc("/mpa", h.GetMpaRatings).Methods(http.MethodGet)
	router.HandleFunc("/mpa/{id}", h.GetMpaByID).Methods(http.MethodGet)

	// Use-цепочка не вызывается для несовпавших маршрутов, поэтому 404/405 оборачиваются вручную.
	router.NotFoundHandler = wrap(http.HandlerFunc(h.notFound), chain)
	router.MethodNotAllowedHandler = wrap(http.HandlerFunc(h.methodNotAllowed), chain)

	return router
}

// wrap применяет middleware в том же порядке, что и router.Use: первый внешний.
func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}
