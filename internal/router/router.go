package router

import (
	"net/http"
	"strings"

	"clinic-offers/internal/handler"
	"clinic-offers/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	quoteHandler *handler.QuoteHandler,
	offerHandler *handler.OfferHandler,
	walletHandler *handler.WalletHandler,
	directoryHandler *handler.DirectoryHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Quote routes
	quoteRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimSuffix(r.URL.Path, "/") {
		case "/api/quotes":
			quoteHandler.Quote(w, r)
		case "/api/quotes/redeem":
			quoteHandler.Redeem(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/quotes", quoteRouteHandler)
	mux.HandleFunc("/api/quotes/", quoteRouteHandler)

	// Offer handler function
	offerRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific offer ID
		if r.URL.Path != "/api/offers" && r.URL.Path != "/api/offers/" {
			offerHandler.Item(w, r)
			return
		}
		offerHandler.Collection(w, r)
	}
	mux.HandleFunc("/api/offers", offerRouteHandler)
	mux.HandleFunc("/api/offers/", offerRouteHandler)

	// Patient routes: /api/patients/{id} and /api/patients/{id}/wallet sub-paths
	mux.HandleFunc("/api/patients/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/patients/")
		patientID, sub, _ := strings.Cut(rest, "/")
		if patientID == "" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		if sub == "" {
			directoryHandler.Patient(w, r, patientID)
			return
		}

		if sub == "wallet" || strings.HasPrefix(sub, "wallet/") {
			walletHandler.Wallet(w, r, patientID, strings.TrimPrefix(strings.TrimPrefix(sub, "wallet"), "/"))
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	})

	// Package purchase routes
	mux.HandleFunc("/api/packages", walletHandler.Packages)
	mux.HandleFunc("/api/packages/", walletHandler.PackageItem)

	// Service catalogue
	mux.HandleFunc("/api/services", directoryHandler.Services)

	// Apply middleware in order: Recovery -> CorrelationID -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CorrelationID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
