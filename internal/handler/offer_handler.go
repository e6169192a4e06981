package handler

import (
	"encoding/json"
	"net/http"

	"clinic-offers/internal/model"
	"clinic-offers/internal/service"

	"github.com/rs/zerolog"
)

// OfferHandler handles offer catalogue management requests.
type OfferHandler struct {
	service service.OfferService
	logger  zerolog.Logger
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(service service.OfferService, logger zerolog.Logger) *OfferHandler {
	return &OfferHandler{
		service: service,
		logger:  logger.With().Str("handler", "offer").Logger(),
	}
}

// Collection handles GET and POST /api/offers requests.
func (h *OfferHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		offers, err := h.service.ListOffers(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to list offers", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, offers)

	case http.MethodPost:
		var o model.Offer
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
		if err := h.service.CreateOffer(r.Context(), &o); err != nil {
			writeDomainError(w, r, err, h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, o)

	default:
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
	}
}

// Item handles GET, PUT and DELETE /api/offers/{id} requests.
func (h *OfferHandler) Item(w http.ResponseWriter, r *http.Request) {
	// Expecting path: /api/offers/{id}
	id := r.URL.Path[len("/api/offers/"):]
	if id == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "offer ID is required", h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		o, err := h.service.GetOffer(r.Context(), id)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve offer", h.logger)
			return
		}
		if o == nil {
			writeError(w, r, http.StatusNotFound, model.ErrCodeOfferNotFound, "offer not found", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, o)

	case http.MethodPut:
		var o model.Offer
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
		o.ID = id
		if err := h.service.UpdateOffer(r.Context(), &o); err != nil {
			writeDomainError(w, r, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, o)

	case http.MethodDelete:
		if err := h.service.DeleteOffer(r.Context(), id); err != nil {
			writeDomainError(w, r, err, h.logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
	}
}
