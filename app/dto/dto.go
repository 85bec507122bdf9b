// Package dto holds the status server's response payloads
package dto

// APIResponse is the envelope of every status server response
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// ErrorDetail identifies what failed and on which request
type ErrorDetail struct {
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewErrorResponse builds a failed envelope for the request requestID
func NewErrorResponse(message, code, requestID string, details any) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Error:   ErrorDetail{Code: code, RequestID: requestID, Details: details},
	}
}
