package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeTimeout      = "TIMEOUT"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is an error with an API code and HTTP status
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InvalidInput reports a malformed request
func InvalidInput(message string, err error) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

// Internal reports an unexpected failure
func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// WriteJSON writes data with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes err as an ErrorResponse. Errors that are not an
// AppError are reported as internal errors without their message.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	_ = WriteJSON(w, appErr.HTTPStatus, ErrorResponse{Code: appErr.Code, Message: appErr.Message})
}
