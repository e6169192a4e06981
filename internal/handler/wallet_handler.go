package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"clinic-offers/internal/model"
	"clinic-offers/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletHandler handles patient wallet and package purchase requests.
type WalletHandler struct {
	service service.WalletService
	logger  zerolog.Logger
}

// NewWalletHandler creates a new wallet handler.
func NewWalletHandler(service service.WalletService, logger zerolog.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		logger:  logger.With().Str("handler", "wallet").Logger(),
	}
}

// Wallet routes /api/patients/{id}/wallet and its sub-paths.
func (h *WalletHandler) Wallet(w http.ResponseWriter, r *http.Request, patientID, rest string) {
	switch rest {
	case "":
		if r.Method != http.MethodGet {
			writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
			return
		}
		wallet, err := h.service.GetWallet(r.Context(), patientID)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve wallet", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, wallet)

	case "topup":
		if r.Method != http.MethodPost {
			writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
			return
		}
		var req model.TopUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
		if err := h.service.TopUp(r.Context(), patientID, req.Amount); err != nil {
			writeDomainError(w, r, err, h.logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "credits/redeem":
		if r.Method != http.MethodPost {
			writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
			return
		}
		var req model.CreditRedeemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
		if err := h.service.RedeemCredit(r.Context(), patientID, &req); err != nil {
			writeDomainError(w, r, err, h.logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// Packages handles POST /api/packages requests.
func (h *WalletHandler) Packages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
		return
	}

	var req model.PackagePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	purchase, err := h.service.PurchasePackage(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, purchase)
}

// PackageItem routes /api/packages/{id}/pay requests.
func (h *WalletHandler) PackageItem(w http.ResponseWriter, r *http.Request) {
	// Expecting path: /api/packages/{id}/pay
	rest := r.URL.Path[len("/api/packages/"):]
	idStr, action, _ := strings.Cut(rest, "/")

	purchaseID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid purchase ID format", h.logger)
		return
	}

	if action != "pay" || r.Method != http.MethodPost {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if err := h.service.PayPackage(r.Context(), purchaseID); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
