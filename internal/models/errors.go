package models

// ErrorResponse is the structured error body returned by both services.
// Code mirrors the HTTP status of the response carrying it.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
