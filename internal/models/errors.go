package models

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes returned by the service layer. Handlers translate these to
// HTTP statuses; API clients branch on the code string.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeSelfReference    = "SELF_REFERENCE"
	CodeDuplicateRequest = "DUPLICATE_REQUEST"
	CodeInvalidState     = "INVALID_STATE"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeConflict         = "CONFLICT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is a typed application error carrying a stable code.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that a referenced entity does not exist.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewSelfReferenceError reports that an actor targeted itself.
func NewSelfReferenceError(message string) *AppError {
	return &AppError{
		Code:    CodeSelfReference,
		Message: message,
	}
}

// NewDuplicateRequestError reports that a relationship already exists in a
// state that blocks resubmission.
func NewDuplicateRequestError(message string) *AppError {
	return &AppError{
		Code:    CodeDuplicateRequest,
		Message: message,
	}
}

// NewInvalidStateError reports an operation illegal for the current state.
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidState,
		Message: message,
	}
}

// NewPermissionDeniedError reports that the actor lacks the required
// relationship to the target.
func NewPermissionDeniedError(message string) *AppError {
	return &AppError{
		Code:    CodePermissionDenied,
		Message: message,
	}
}

// NewConflictError reports a storage-level race (unique constraint hit by a
// concurrent writer). Safe for the caller to retry once.
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Err:     err,
	}
}

// NewValidationError reports malformed or otherwise unacceptable input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewInternalError wraps an unexpected storage or infrastructure failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func httpStatusForCode(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSelfReference, CodeDuplicateRequest, CodeInvalidState, CodeValidation:
		return http.StatusBadRequest
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response, mapping AppError
// codes to HTTP statuses.
func RespondWithError(c echo.Context, err error) error {
	if appErr, ok := err.(*AppError); ok {
		return c.JSON(httpStatusForCode(appErr.Code), ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
	}
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return c.JSON(httpErr.Code, ErrorResponse{Error: fmt.Sprintf("%v", httpErr.Message)})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
