// Package validation настраивает go-playground/validator для доменных моделей
// и переводит ошибки валидации в читаемые сообщения.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"filmorate/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// now подменяется в тестах.
var now = time.Now

// New создает валидатор с правилами Filmorate:
//   - notblank: строка не пустая и не состоит из пробелов;
//   - nowhitespace: строка без пробельных символов;
//   - releasedate: дата не раньше domain.CinemaBirthday;
//   - past: дата строго раньше сегодняшнего дня.
//
// В ошибках используются имена полей из json-тегов.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(domain.Date); ok {
			return d.Time
		}
		return nil
	}, domain.Date{})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "nowhitespace", noWhitespace)
	mustRegister(v, "releasedate", notBeforeCinemaBirthday)
	mustRegister(v, "past", inPast)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func noWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func notBeforeCinemaBirthday(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return false
	}
	return !t.Before(domain.CinemaBirthday.Time)
}

func inPast(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	if !ok {
		return false
	}
	y, m, d := now().Date()
	return t.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func fieldTime(fl validator.FieldLevel) (time.Time, bool) {
	switch v := fl.Field().Interface().(type) {
	case time.Time:
		return v, true
	case domain.Date:
		return v.Time, true
	}
	return time.Time{}, false
}

var messages = map[string]string{
	"required":     "%s is required",
	"notblank":     "%s must not be blank",
	"nowhitespace": "%s must not contain spaces",
	"releasedate":  "%s must not be before " + domain.CinemaBirthday.String(),
	"past":         "%s must be in the past",
}

var messagesWithParam = map[string]string{
	"max":      "%s must be at most %s characters",
	"gt":       "%s must be greater than %s",
	"contains": "%s must contain %q",
}

// Message переводит ошибку валидатора в сообщение вида "field must ...; field2 ...".
// Ошибки другого типа возвращаются как есть.
func Message(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, translate(fe))
	}
	return strings.Join(parts, "; ")
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := messagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
