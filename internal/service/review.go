package service

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"

	"github.com/go-playground/validator/v10"
)

type ReviewService struct {
	log      *slog.Logger
	reviews  store.ReviewStore
	films    store.FilmStore
	users    store.UserStore
	feed     store.FeedStore
	validate *validator.Validate
}

func NewReviewService(log *slog.Logger, stores *store.Stores, validate *validator.Validate) *ReviewService {
	return &ReviewService{
		log:      log,
		reviews:  stores.Reviews,
		films:    stores.Films,
		users:    stores.Users,
		feed:     stores.Feed,
		validate: validate,
	}
}

func (s *ReviewService) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	const op = "service.ReviewService.Create"
	log := s.log.With(slog.String("op", op), slog.Int64("userID", review.UserID), slog.Int64("filmID", review.FilmID))

	if err := s.validate.StructCtx(ctx, review); err != nil {
		return nil, validationError(err)
	}
	if _, err := s.users.GetByID(ctx, review.UserID); err != nil {
		return nil, translate(err)
	}
	if _, err := s.films.GetByID(ctx, review.FilmID); err != nil {
		return nil, translate(err)
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		log.ErrorContext(ctx, "failed to create review", slog.String("error", err.Error()))
		return nil, translate(err)
	}
	log.InfoContext(ctx, "review created", slog.Int64("reviewID", review.ID))

	if err := addEvent(ctx, s.feed, log, review.UserID, review.ID, domain.EventReview, domain.OperationAdd); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, review.ID)
}

// Update меняет текст и оценку отзыва. Событие ленты пишется от имени автора отзыва.
func (s *ReviewService) Update(ctx context.Context, review domain.Review) (*domain.Review, error) {
	const op = "service.ReviewService.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("reviewID", review.ID))

	if err := s.validate.StructPartialCtx(ctx, review, "Content", "IsPositive"); err != nil {
		return nil, validationError(err)
	}
	stored, err := s.reviews.GetByID(ctx, review.ID)
	if err != nil {
		return nil, translate(err)
	}
	if err := s.reviews.Update(ctx, &review); err != nil {
		log.ErrorContext(ctx, "failed to update review", slog.String("error", err.Error()))
		return nil, translate(err)
	}
	if err := addEvent(ctx, s.feed, log, stored.UserID, stored.ID, domain.EventReview, domain.OperationUpdate); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, review.ID)
}

func (s *ReviewService) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return review, nil
}

// List возвращает отзывы фильма filmID, при filmID == 0 отзывы всех фильмов.
func (s *ReviewService) List(ctx context.Context, filmID int64, count int) ([]domain.Review, error) {
	if count <= 0 {
		return nil, invalid("count must be positive")
	}
	reviews, err := s.reviews.List(ctx, filmID, count)
	return reviews, translate(err)
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	const op = "service.ReviewService.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("reviewID", id))

	stored, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	if err := addEvent(ctx, s.feed, log, stored.UserID, stored.ID, domain.EventReview, domain.OperationRemove); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		log.ErrorContext(ctx, "failed to delete review", slog.String("error", err.Error()))
		return translate(err)
	}
	log.InfoContext(ctx, "review deleted")
	return nil
}

// Vote ставит оценку отзыву: domain.VoteLike или domain.VoteDislike. Повторная оценка заменяет прежнюю.
func (s *ReviewService) Vote(ctx context.Context, reviewID, userID int64, value int) error {
	if value != domain.VoteLike && value != domain.VoteDislike {
		return invalid("vote must be 1 or -1")
	}
	if err := s.ensureVoters(ctx, reviewID, userID); err != nil {
		return err
	}
	return translate(s.reviews.SetVote(ctx, reviewID, userID, value))
}

// RemoveVote снимает оценку пользователя независимо от ее знака.
func (s *ReviewService) RemoveVote(ctx context.Context, reviewID, userID int64) error {
	if err := s.ensureVoters(ctx, reviewID, userID); err != nil {
		return err
	}
	return translate(s.reviews.RemoveVote(ctx, reviewID, userID))
}

func (s *ReviewService) ensureVoters(ctx context.Context, reviewID, userID int64) error {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return translate(err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return translate(err)
	}
	return nil
}
