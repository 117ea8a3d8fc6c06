package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"

	// Credential onboarding taxonomy. Each of these is returned as a typed
	// result; the calling controller layer decides user messaging and none of
	// them is retried automatically.
	ErrVerificationFailed   ErrorCode = "VERIFICATION_FAILED"
	ErrVerifierUnavailable  ErrorCode = "VERIFIER_UNAVAILABLE"
	ErrIncompleteOnboarding ErrorCode = "INCOMPLETE_ONBOARDING"
	ErrAmbiguousState       ErrorCode = "AMBIGUOUS_CREDENTIAL_STATE"
	ErrConfiguration        ErrorCode = "CONFIGURATION_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Is reports whether err is an APIError carrying the given code.
func Is(err error, code ErrorCode) bool {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict, ErrAmbiguousState:
			return http.StatusConflict
		case ErrBadRequest:
			return http.StatusBadRequest
		case ErrInvalidInput, ErrVerificationFailed:
			return http.StatusUnprocessableEntity
		case ErrIncompleteOnboarding:
			return http.StatusPreconditionFailed
		case ErrVerifierUnavailable:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
