package api

import (
	"log/slog"
	"net/http"

	"filmorate/internal/domain"
)

// CreateUser обрабатывает запрос на регистрацию пользователя.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateUser request received", slog.String("path", r.URL.Path))

	var user domain.User
	if !h.decode(w, r, &user) {
		return
	}
	created, err := h.users.Create(ctx, user)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, created)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if !h.decode(w, r, &user) {
		return
	}
	updated, err := h.users.Update(r.Context(), user)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, users)
}

func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	h.changeFriend(w, r, h.users.AddFriend)
}

func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	h.changeFriend(w, r, h.users.RemoveFriend)
}

func (h *Handler) changeFriend(w http.ResponseWriter, r *http.Request, change pairFunc) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	friendID, ok := h.pathID(w, r, "friendId")
	if !ok {
		return
	}
	if err := change(r.Context(), id, friendID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	friends, err := h.users.Friends(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

func (h *Handler) GetCommonFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	otherID, ok := h.pathID(w, r, "otherId")
	if !ok {
		return
	}
	friends, err := h.users.CommonFriends(r.Context(), id, otherID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

// GetFeed возвращает ленту событий пользователя в порядке возникновения.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	events, err := h.users.Feed(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, events)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	films, err := h.users.Recommendations(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}
