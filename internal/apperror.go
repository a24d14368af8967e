package internal

import "errors"

// Sentinel errors shared across the schedule, analytics and reminder packages.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrMissingReference  = errors.New("referenced record no longer exists")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// AppError is the error shape serialized inside API responses.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}
