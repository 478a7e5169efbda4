package models

// User-facing error messages. Internal detail goes to the logs only.
const (
	MessageLoadFailed = "Failed to load data"
	MessageNoData     = "No data available"
	MessageNotFound   = "Not found"
	MessageUnexpected = "An unexpected error occurred"
	MessageBadMethod  = "Method not allowed"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}
