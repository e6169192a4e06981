package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"clinic-offers/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped catalogue files on disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped JSON catalogue document from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Offer, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	l.logger.Info().Str("file", path).Msg("loading offer catalogue")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gzipReader.Close()

	var doc Document
	if err := json.NewDecoder(gzipReader).Decode(&doc); err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode catalogue document")
		return nil, fmt.Errorf("failed to decode catalogue document %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("offers_loaded", len(doc.Offers)).
		Msg("offer catalogue loaded successfully")

	return doc.Offers, nil
}
