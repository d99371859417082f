package dto

// APIResponse is the envelope of every successful response.
type APIResponse struct {
	Success bool         `json:"success" example:"true"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// SuccessResponse represents a standard message-only response
type SuccessResponse struct {
	Message string `json:"message"`
}
