package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrSetNotFound     ErrCode = "SET_NOT_FOUND"
	ErrSetOutOfRange   ErrCode = "SET_NUMBER_OUT_OF_RANGE"
	ErrQuestionMissing ErrCode = "QUESTION_NOT_FOUND"

	// Session state machine
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrSessionExpired   ErrCode = "SESSION_EXPIRED"
	ErrSessionCompleted ErrCode = "SESSION_COMPLETED"
	ErrSubmitConflict   ErrCode = "SUBMISSION_CONFLICT"

	// Content provider
	ErrProviderFailure ErrCode = "PROVIDER_FAILURE"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrNotFound:
		return "Resource not found."
	case ErrSetNotFound:
		return "Practice set not found. Generate the practice sets first."
	case ErrSetOutOfRange:
		return "Practice set number is out of range."
	case ErrQuestionMissing:
		return "Question not found in any practice set."

	case ErrSessionNotFound:
		return "Exam session not found."
	case ErrSessionExpired:
		return "The exam time limit has been exceeded. Request the score report to see your results."
	case ErrSessionCompleted:
		return "This exam session is already completed."
	case ErrSubmitConflict:
		return "Another submission for this session is in progress."

	case ErrProviderFailure:
		return "The question generation service is currently unavailable."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
