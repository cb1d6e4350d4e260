package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidStatus  ErrCode = "INVALID_STATUS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound             ErrCode = "NOT_FOUND"
	ErrExamNotFound         ErrCode = "EXAM_NOT_FOUND"
	ErrRegistrationNotFound ErrCode = "REGISTRATION_NOT_FOUND"
	ErrResultNotFound       ErrCode = "RESULT_NOT_FOUND"

	// ─── Admin accounts ────────────────────────────────────────────────
	ErrEmailExists            ErrCode = "EMAIL_EXISTS"
	ErrCannotDeleteSuperAdmin ErrCode = "CANNOT_DELETE_SUPER_ADMIN"
	ErrCannotDeleteSelf       ErrCode = "CANNOT_DELETE_SELF"

	// ─── Payments & exams ──────────────────────────────────────────────
	ErrPaymentSignatureInvalid ErrCode = "PAYMENT_SIGNATURE_INVALID"
	ErrPaymentGateway          ErrCode = "PAYMENT_GATEWAY_ERROR"
	ErrPaymentOrderMismatch    ErrCode = "PAYMENT_ORDER_MISMATCH"
	ErrPaymentNotCompleted     ErrCode = "PAYMENT_NOT_COMPLETED"
	ErrHallTicketNotAvailable  ErrCode = "HALL_TICKET_NOT_AVAILABLE"
	ErrResultsNotPublished     ErrCode = "RESULTS_NOT_PUBLISHED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidStatus:
		return "Unknown status value."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrExamNotFound:
		return "Exam not found."
	case ErrRegistrationNotFound:
		return "Registration not found."
	case ErrResultNotFound:
		return "No result found for the given details."

	// ─── Admin accounts ────────────────────────────────────────────────
	case ErrEmailExists:
		return "An admin with this email already exists."
	case ErrCannotDeleteSuperAdmin:
		return "Super admin accounts cannot be deleted."
	case ErrCannotDeleteSelf:
		return "You cannot delete your own account."

	// ─── Payments & exams ──────────────────────────────────────────────
	case ErrPaymentSignatureInvalid:
		return "Payment verification failed."
	case ErrPaymentGateway:
		return "The payment gateway could not process the request."
	case ErrPaymentOrderMismatch:
		return "This payment does not belong to the registration."
	case ErrPaymentNotCompleted:
		return "Payment has not been completed for this registration."
	case ErrHallTicketNotAvailable:
		return "The hall ticket is available 7 days before the exam."
	case ErrResultsNotPublished:
		return "Results for this exam have not been published yet."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
