package handler

import (
	"net/http"

	"clinic-offers/internal/model"
	"clinic-offers/internal/repository"

	"github.com/rs/zerolog"
)

// DirectoryHandler serves the read-only service and patient lookups the
// billing screen needs alongside quoting.
type DirectoryHandler struct {
	serviceRepo repository.ServiceRepository
	patientRepo repository.PatientRepository
	logger      zerolog.Logger
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(
	serviceRepo repository.ServiceRepository,
	patientRepo repository.PatientRepository,
	logger zerolog.Logger,
) *DirectoryHandler {
	return &DirectoryHandler{
		serviceRepo: serviceRepo,
		patientRepo: patientRepo,
		logger:      logger.With().Str("handler", "directory").Logger(),
	}
}

// Services handles GET /api/services requests.
func (h *DirectoryHandler) Services(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
		return
	}

	services, err := h.serviceRepo.GetAll(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve services", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

// Patient handles GET /api/patients/{id} requests.
func (h *DirectoryHandler) Patient(w http.ResponseWriter, r *http.Request, patientID string) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidJSON, "method not allowed", h.logger)
		return
	}

	patient, err := h.patientRepo.GetByID(r.Context(), patientID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve patient", h.logger)
		return
	}
	if patient == nil {
		writeError(w, r, http.StatusNotFound, model.ErrCodePatientNotFound, "patient not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, patient)
}
