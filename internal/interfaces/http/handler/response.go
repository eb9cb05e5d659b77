package handler

import "github.com/hotel/backend/internal/interfaces/http/dto"

// The types below only describe the dto.Response envelope to swag.

// APIResponse wraps a typed payload
// @Description Success envelope; list endpoints also carry meta.total
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope
// @Description Error envelope; VALIDATION_ERROR lists the rejected fields in details
type ErrorResponse struct {
	Success bool        `json:"success" example:"false"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail documents dto.ErrorInfo with examples
type ErrorDetail struct {
	Code      string                 `json:"code" example:"INSUFFICIENT_STOCK"`
	Message   string                 `json:"message" example:"Requested 12 kg of Tomatoes but only 8 kg are in stock"`
	RequestID string                 `json:"request_id,omitempty" example:"3f0c8c1e-5b7a-4c11-9d0e-2a6f1f7f4b2d"`
	Details   []dto.ValidationDetail `json:"details,omitempty"`
}

// SuccessResponse is returned by actions without a payload
// @Description Success envelope without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
