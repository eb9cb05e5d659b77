package dto

import "net/http"

// Error codes carried in error responses. Domain codes pass through from
// shared.DomainError unchanged.
const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeExternalService      = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_FORMAT"
)

// Token error codes, all answered with 401
const (
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid     = "INVALID_TOKEN"
	ErrCodeTokenNotYetValid = "TOKEN_NOT_VALID"
	ErrCodeTokenRevoked     = "TOKEN_REVOKED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenNotYetValid:   http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeExternalService:      http.StatusBadGateway,
	ErrCodeInternal:             http.StatusInternalServerError,
	ErrCodeRequestTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:          http.StatusTooManyRequests,
	ErrCodeUnsupportedMediaType: http.StatusNotAcceptable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
