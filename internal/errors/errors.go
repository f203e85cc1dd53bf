// Package errors defines the error payloads of the REST API and maps
// trainer and storage errors onto them.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/palemoky/chinese-trainer/internal/exercise"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// Code is the machine readable part of an error response.
type Code string

const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeInvalidID      Code = "INVALID_ID"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeInternal       Code = "INTERNAL_ERROR"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeNoData         Code = "NO_DATA"
	CodeConflict       Code = "CONFLICT"
	CodeTooLarge       Code = "TOO_LARGE"
)

// APIError is rendered as {"error": Message, "code": Code} with HTTPStatus.
type APIError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	ErrRateLimited = &APIError{Code: CodeRateLimited, Message: "Rate limit exceeded", HTTPStatus: http.StatusTooManyRequests}
	ErrNoData      = &APIError{Code: CodeNoData, Message: "No data or exercise types selected", HTTPStatus: http.StatusUnprocessableEntity}
)

// NotFound reports a missing resource, e.g. NotFound("Lesson").
func NotFound(resource string) *APIError {
	return &APIError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidID reports a malformed fingerprint in the named path parameter.
func InvalidID(paramName string) *APIError {
	return &APIError{
		Code:       CodeInvalidID,
		Message:    fmt.Sprintf("Invalid %s: must be 8 hexadecimal characters", paramName),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidRequest reports a body or query the handler cannot use.
func InvalidRequest(message string) *APIError {
	return &APIError{
		Code:       CodeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// TooLarge reports an upload over limit bytes.
func TooLarge(limit int64) *APIError {
	return &APIError{
		Code:       CodeTooLarge,
		Message:    fmt.Sprintf("Upload exceeds the %d byte limit", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// Conflict reports a request that does not fit the current lesson state.
func Conflict(message string) *APIError {
	return &APIError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// Internal hides the cause behind message, or a generic text when empty.
func Internal(message string) *APIError {
	if message == "" {
		message = "Internal server error"
	}
	return &APIError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// FromDomain maps errors returned by the trainer and the dataset store.
// Errors it does not know become Internal(fallback).
func FromDomain(err error, fallback string) *APIError {
	var apiErr *APIError
	switch {
	case stderrors.As(err, &apiErr):
		return apiErr
	case stderrors.Is(err, exercise.ErrNoData):
		return ErrNoData
	case stderrors.Is(err, session.ErrNoLesson):
		return NotFound("Lesson")
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("Dataset")
	case stderrors.Is(err, session.ErrAlreadyAnswered),
		stderrors.Is(err, session.ErrNotAnswered),
		stderrors.Is(err, session.ErrLessonOver):
		return Conflict(err.Error())
	default:
		return Internal(fallback)
	}
}
