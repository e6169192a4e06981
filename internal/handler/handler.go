package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-offers/internal/middleware"
	"clinic-offers/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
// The request's correlation ID is included so clients can reference it.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	correlationID := middleware.GetCorrelationID(r.Context())
	logger.Error().
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message, CorrelationID: correlationID})
}

// writeDomainError maps a service-layer error to an HTTP response.
// Non-domain errors are reported as opaque internal errors.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}
	writeError(w, r, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeOfferNotFound, model.ErrCodePatientNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidOffer,
		model.ErrCodeServiceNotFound, model.ErrCodeInvalidQuantity:
		return http.StatusBadRequest
	case model.ErrCodeUsageLimitReached, model.ErrCodeInsufficientBalance, model.ErrCodeInsufficientCredits:
		return http.StatusConflict
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
