package errors

import (
	stderrors "errors"
	"fmt"
)

// FieldError - ошибка валидации конкретного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"errors,omitempty"`
	StatusCode int          `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches by code so that copies made by WithFields/WithMessage still
// satisfy errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithFields returns a copy carrying field-level errors.
func (e *AppError) WithFields(fields []FieldError) *AppError {
	cp := *e
	cp.Fields = fields
	return &cp
}

// WithMessage returns a copy with a different user-visible message.
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// Validation builds a validation error for the given fields.
func Validation(fields ...FieldError) *AppError {
	return ErrValidation.WithFields(fields)
}

// Field builds a single-field validation error.
func Field(field, message string) *AppError {
	return Validation(FieldError{Field: field, Message: message})
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is is errors.Is re-exported so callers don't need both packages.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
