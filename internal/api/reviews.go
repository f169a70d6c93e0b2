package api

import (
	"context"
	"net/http"

	"filmorate/internal/domain"
	"filmorate/internal/service"
)

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if !h.decode(w, r, &review) {
		return
	}
	created, err := h.reviews.Create(r.Context(), review)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, created)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if !h.decode(w, r, &review) {
		return
	}
	updated, err := h.reviews.Update(r.Context(), review)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, updated)
}

// GetReviews возвращает отзывы: ?filmId= (без него по всем фильмам) &count=10
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	filmID, ok := h.queryInt64(w, r, "filmId", 0)
	if !ok {
		return
	}
	count, ok := h.queryInt64(w, r, "count", service.DefaultCount)
	if !ok {
		return
	}
	reviews, err := h.reviews.List(r.Context(), filmID, int(count))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, reviews)
}

func (h *Handler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	review, err := h.reviews.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}

func (h *Handler) LikeReview(w http.ResponseWriter, r *http.Request) {
	h.changeVote(w, r, h.vote(domain.VoteLike))
}

func (h *Handler) DislikeReview(w http.ResponseWriter, r *http.Request) {
	h.changeVote(w, r, h.vote(domain.VoteDislike))
}

// RemoveReviewVote обслуживает DELETE .../like/{userId} и DELETE .../dislike/{userId}.
func (h *Handler) RemoveReviewVote(w http.ResponseWriter, r *http.Request) {
	h.changeVote(w, r, h.reviews.RemoveVote)
}

func (h *Handler) vote(value int) pairFunc {
	return func(ctx context.Context, reviewID, userID int64) error {
		return h.reviews.Vote(ctx, reviewID, userID, value)
	}
}

func (h *Handler) changeVote(w http.ResponseWriter, r *http.Request, change pairFunc) {
	reviewID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := change(r.Context(), reviewID, userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, nil)
}
