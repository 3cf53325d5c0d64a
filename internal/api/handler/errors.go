package handler

// ErrorResponse is the error envelope rendered for every 4xx/5xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
