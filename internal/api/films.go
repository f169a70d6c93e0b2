package api

import (
	"log/slog"
	"net/http"

	"filmorate/internal/domain"
	"filmorate/internal/service"
)

// CreateFilm обрабатывает запрос на создание фильма.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateFilm request received", slog.String("path", r.URL.Path))

	var film domain.Film
	if !h.decode(w, r, &film) {
		return
	}
	created, err := h.films.Create(ctx, film)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, created)
}

// UpdateFilm полностью заменяет фильм, id берется из тела запроса.
func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var film domain.Film
	if !h.decode(w, r, &film) {
		return
	}
	updated, err := h.films.Update(r.Context(), film)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) GetFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) GetFilmByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	film, err := h.films.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.films.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) AddFilmLike(w http.ResponseWriter, r *http.Request) {
	h.changeFilmLike(w, r, h.films.AddLike)
}

func (h *Handler) RemoveFilmLike(w http.ResponseWriter, r *http.Request) {
	h.changeFilmLike(w, r, h.films.RemoveLike)
}

func (h *Handler) changeFilmLike(w http.ResponseWriter, r *http.Request, change pairFunc) {
	filmID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := change(r.Context(), filmID, userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

// GetPopularFilms возвращает самые популярные фильмы: ?count=10&genreId=&year=
func (h *Handler) GetPopularFilms(w http.ResponseWriter, r *http.Request) {
	count, ok := h.queryInt64(w, r, "count", service.DefaultCount)
	if !ok {
		return
	}
	genreID, ok := h.queryInt64(w, r, "genreId", 0)
	if !ok {
		return
	}
	year, ok := h.queryInt64(w, r, "year", 0)
	if !ok {
		return
	}
	films, err := h.films.Popular(r.Context(), int(count), genreID, int(year))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) GetDirectorFilms(w http.ResponseWriter, r *http.Request) {
	directorID, ok := h.pathID(w, r, "directorId")
	if !ok {
		return
	}
	films, err := h.films.ByDirector(r.Context(), directorID, r.URL.Query().Get("sortBy"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	films, err := h.films.Search(r.Context(), q.Get("query"), q.Get("by"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetCommonFilms возвращает фильмы, которые понравились обоим: ?userId=&friendId=
func (h *Handler) GetCommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requiredQueryInt64(w, r, "userId")
	if !ok {
		return
	}
	friendID, ok := h.requiredQueryInt64(w, r, "friendId")
	if !ok {
		return
	}
	films, err := h.users.CommonFilms(r.Context(), userID, friendID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}
