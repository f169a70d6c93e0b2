package domain

// Review отзыв пользователя на фильм.
// Useful всегда равен сумме оценок (+1/-1) других пользователей.
type Review struct {
	ID         int64  `json:"reviewId" db:"review_id"`
	Content    string `json:"content" db:"content" validate:"notblank"`
	IsPositive *bool  `json:"isPositive" db:"is_positive" validate:"required"`
	UserID     int64  `json:"userId" db:"user_id" validate:"required"`
	FilmID     int64  `json:"filmId" db:"film_id" validate:"required"`
	Useful     int    `json:"useful" db:"useful"`
}

const (
	VoteLike    = 1
	VoteDislike = -1
)
