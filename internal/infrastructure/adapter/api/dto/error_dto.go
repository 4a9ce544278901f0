package dto

import (
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
)

// ErrorBody carries the machine-readable code and the user-facing message
type ErrorBody struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Status string    `json:"status"`
	Code   int       `json:"code"`
	Error  ErrorBody `json:"error"`
}

// NewErrorResponse builds the envelope for a classified error.
// Unclassified errors never leak their text.
func NewErrorResponse(err error, correlationID string) (int, ErrorResponse) {
	kind := errs.KindOf(err)
	if kind == "" {
		kind = errs.KindInternal
	}
	status := errs.HTTPStatus(kind)

	return status, ErrorResponse{
		Status: "error",
		Code:   status,
		Error: ErrorBody{
			Code:          string(kind),
			Message:       errs.MessageOf(err),
			CorrelationID: correlationID,
		},
	}
}

// NewRawErrorResponse builds the envelope for transport-level failures that
// have no domain kind, such as an unknown route
func NewRawErrorResponse(status int, code, message, correlationID string) ErrorResponse {
	return ErrorResponse{
		Status: "error",
		Code:   status,
		Error: ErrorBody{
			Code:          code,
			Message:       message,
			CorrelationID: correlationID,
		},
	}
}
