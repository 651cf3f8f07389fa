package apierrors

import "fmt"

// User-facing messages. They are part of the HTTP contract and relied on by the admin UI.
const (
	MsgBackendNotConfigured   = "API configuration missing: NEXT_PUBLIC_API_BASE_URL is not set on the server."
	MsgProxyFailed            = "Error proxying to API"
	MsgSubscriptionIDRequired = "Subscription ID is required."
	MsgInvalidJSON            = "Invalid JSON payload."
	MsgInvalidMultipart       = "Invalid multipart payload."
	MsgInvalidBody            = "Invalid request body."
	MsgNotAuthenticated       = "Not authenticated."
	MsgLoginUnavailable       = "Unable to reach the authentication server. Please try again later."
	MsgLoginFailed            = "Invalid email or password."
	MsgNotAdmin               = "Access denied: this account does not have administrator privileges."
	MsgModerationDisabled     = "Content moderation is not configured."
	MsgModerationFailed       = "Content moderation request failed."
	MsgActivityDisabled       = "Activity log is not enabled."
	MsgTooManyRequests        = "Too many attempts. Please wait before trying again."
	MsgInternal               = "Internal server error."
)

// APIError is a locally generated failure carrying the HTTP status to answer with.
type APIError struct {
	Code    int
	Message string
}

func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}
