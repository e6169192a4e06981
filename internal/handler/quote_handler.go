package handler

import (
	"encoding/json"
	"net/http"

	"clinic-offers/internal/model"
	"clinic-offers/internal/service"

	"github.com/rs/zerolog"
)

// QuoteHandler handles the billing-screen pricing flow.
type QuoteHandler struct {
	service service.PricingService
	logger  zerolog.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service service.PricingService, logger zerolog.Logger) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		logger:  logger.With().Str("handler", "quote").Logger(),
	}
}

// Quote handles POST /api/quotes requests.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
		return
	}

	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Redeem handles POST /api/quotes/redeem requests.
func (h *QuoteHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
		return
	}

	var req model.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	redemption, err := h.service.Redeem(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, redemption)
}
