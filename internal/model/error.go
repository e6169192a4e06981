package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeOfferNotFound       = "OFFER_NOT_FOUND"
	ErrCodeInvalidOffer        = "INVALID_OFFER"
	ErrCodePatientNotFound     = "PATIENT_NOT_FOUND"
	ErrCodeServiceNotFound     = "SERVICE_NOT_FOUND"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeUsageLimitReached   = "USAGE_LIMIT_REACHED"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrOfferNotFound       = NewDomainError(ErrCodeOfferNotFound, "Offer not found")
	ErrInvalidOffer        = NewDomainError(ErrCodeInvalidOffer, "Offer definition is invalid")
	ErrPatientNotFound     = NewDomainError(ErrCodePatientNotFound, "Patient not found")
	ErrServiceNotFound     = NewDomainError(ErrCodeServiceNotFound, "One or more services not found")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrUsageLimitReached   = NewDomainError(ErrCodeUsageLimitReached, "Offer usage limit reached")
	ErrInsufficientBalance = NewDomainError(ErrCodeInsufficientBalance, "Insufficient wallet balance")
	ErrInsufficientCredits = NewDomainError(ErrCodeInsufficientCredits, "Insufficient service credits")
)
