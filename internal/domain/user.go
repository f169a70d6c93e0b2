package domain

// User пользователь сервиса.
type User struct {
	ID       int64  `json:"id" db:"user_id"`
	Email    string `json:"email" db:"email" validate:"notblank,contains=@"`
	Login    string `json:"login" db:"login" validate:"notblank,nowhitespace"`
	Name     string `json:"name" db:"name"`
	Birthday Date   `json:"birthday" db:"birthday" validate:"required,past"`
}
