package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"filmorate/internal/service"

	"github.com/gorilla/mux"
)

// Services набор сервисов, которые обслуживает HTTP API.
type Services struct {
	Films     *service.FilmService
	Users     *service.UserService
	Directors *service.DirectorService
	Reviews   *service.ReviewService
	Reference *service.ReferenceService
}

// pairFunc операция над парой сущностей, заданных в пути запроса.
type pairFunc func(ctx context.Context, id, otherID int64) error

// Handler содержит зависимости для HTTP обработчиков Filmorate.
type Handler struct {
	films     *service.FilmService
	users     *service.UserService
	directors *service.DirectorService
	reviews   *service.ReviewService
	reference *service.ReferenceService
	logger    *slog.Logger
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(s Services, l *slog.Logger) *Handler {
	return &Handler{
		films:     s.Films,
		users:     s.Users,
		directors: s.Directors,
		reviews:   s.Reviews,
		reference: s.Reference,
		logger:    l,
	}
}

// --- Вспомогательные функции ---

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// respondServiceError переводит ошибку сервиса в HTTP статус.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, service.ErrValidation):
		h.logger.InfoContext(ctx, "Request validation failed", slog.String("error", err.Error()))
		msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
		h.respondError(w, r, http.StatusBadRequest, "Validation failed: "+msg)
	case errors.Is(err, service.ErrNotFound):
		h.logger.InfoContext(ctx, "Requested entity not found", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		h.respondError(w, r, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// decode читает JSON тело запроса. При ошибке ответ уже отправлен.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// pathID читает числовой параметр пути. При ошибке ответ уже отправлен.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", name, raw))
		return 0, false
	}
	return id, true
}

// queryInt64 читает необязательный числовой query-параметр; def используется, если параметр не задан.
func (h *Handler) queryInt64(w http.ResponseWriter, r *http.Request, name string, def int64) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", name, raw))
		return 0, false
	}
	return v, true
}

// requiredQueryInt64 как queryInt64, но отсутствующий параметр дает 400.
func (h *Handler) requiredQueryInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	if r.URL.Query().Get(name) == "" {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Missing required parameter %s", name))
		return 0, false
	}
	return h.queryInt64(w, r, name, 0)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.respondError(w, r, http.StatusNotFound, "Route not found")
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
