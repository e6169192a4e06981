package catalog

import (
	"context"

	"clinic-offers/internal/model"
)

// Document is the offer catalogue exchange format: a gzipped JSON file
// exported from the clinic back office and imported at startup.
type Document struct {
	Version    int           `json:"version,omitempty"`
	ExportedAt string        `json:"exportedAt,omitempty"`
	Offers     []model.Offer `json:"offers"`
}

// Loader defines the interface for loading offer catalogue files.
type Loader interface {
	// Load reads a gzipped JSON catalogue document and returns its offers.
	Load(ctx context.Context, path string) ([]model.Offer, error)
}
