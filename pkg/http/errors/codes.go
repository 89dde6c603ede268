package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Match errors
	ErrCodeMatchCreationFailed = "match_creation_failed"
	ErrCodeMatchNotFound       = "match_not_found"
	ErrCodeMatchFinished       = "match_finished"
	ErrCodeMatchInProgress     = "match_in_progress"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError = "internal_error"
	ErrCodeUpstreamError = "upstream_error"
)
