// Package service содержит бизнес-логику Filmorate поверх хранилищ:
// валидацию, проверки существования связанных сущностей и запись ленты событий.
package service

import (
	"errors"
	"fmt"

	"filmorate/internal/store"
	"filmorate/internal/validation"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// translate приводит ошибки хранилища к ошибкам сервиса.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrFilmNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrDirectorNotFound),
		errors.Is(err, store.ErrGenreNotFound),
		errors.Is(err, store.ErrMpaNotFound),
		errors.Is(err, store.ErrReviewNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %s", ErrAlreadyExists, err.Error())
	}
	return err
}

func validationError(err error) error {
	return fmt.Errorf("%w: %s", ErrValidation, validation.Message(err))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
