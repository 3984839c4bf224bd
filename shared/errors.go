package shared

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status and message a handler should render.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, message string, err error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

func NewForbiddenError(err error, message string) *AppError {
	return NewAppError(http.StatusForbidden, message, err)
}

func NewNotFoundError(err error, message string) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

func NewConflictError(err error, message string) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func NewTooManyRequestsError(err error, message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, message, err)
}

func NewBadGatewayError(err error, message string) *AppError {
	return NewAppError(http.StatusBadGateway, message, err)
}

func NewServiceUnavailableError(err error, message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, err)
}

func NewInternalError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// WithData attaches a response payload, e.g. validation details.
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
