package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clinic-offers/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCatalogFile writes a gzipped catalogue document to a temp file.
func writeCatalogFile(t *testing.T, doc Document) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "offers.json.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gw := gzip.NewWriter(file)
	require.NoError(t, json.NewEncoder(gw).Encode(doc))
	require.NoError(t, gw.Close())

	return path
}

func TestFileLoader_Load_Success(t *testing.T) {
	validUntil := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	doc := Document{
		Version: 1,
		Offers: []model.Offer{
			{
				ID:         "OFF-001",
				Name:       "New Patient 15% Off",
				Type:       model.OfferTypePercentage,
				IsActive:   true,
				ValidUntil: &validUntil,
				Conditions: []model.OfferCondition{
					{
						Type:  model.ConditionGroup,
						Logic: model.LogicOr,
						Children: []model.OfferCondition{
							{Type: model.ConditionNewPatient},
							{Type: model.ConditionPatientTag, Parameters: model.ConditionParameters{Tags: []string{"vip"}}},
						},
					},
				},
				Benefits: []model.OfferBenefit{
					{Type: model.BenefitPercentOff, Parameters: model.BenefitParameters{Percent: 15}},
				},
			},
		},
	}

	path := writeCatalogFile(t, doc)
	loader := NewFileLoader(zerolog.Nop())

	offers, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "OFF-001", offers[0].ID)
	require.Len(t, offers[0].Conditions, 1)
	// Condition tree survives the round trip intact.
	assert.Equal(t, model.LogicOr, offers[0].Conditions[0].Logic)
	assert.Len(t, offers[0].Conditions[0].Children, 2)
	assert.Equal(t, 15.0, offers[0].Benefits[0].Parameters.Percent)
}

func TestFileLoader_Load_MissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	offers, err := loader.Load(context.Background(), "/nonexistent/offers.json.gz")

	require.Error(t, err)
	assert.Nil(t, offers)
	assert.Contains(t, err.Error(), "failed to open catalogue file")
}

func TestFileLoader_Load_NotGzipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.json.gz")
	require.NoError(t, os.WriteFile(path, []byte(`{"offers":[]}`), 0o644))

	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileLoader_Load_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.json.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(file)
	_, err = gw.Write([]byte("not json"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, file.Close())

	loader := NewFileLoader(zerolog.Nop())

	_, err = loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode catalogue document")
}

func TestFileLoader_Load_CancelledContext(t *testing.T) {
	path := writeCatalogFile(t, Document{})
	loader := NewFileLoader(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

// stubLoader returns canned results for fallback tests.
type stubLoader struct {
	offers []model.Offer
	err    error
	calls  int
}

func (s *stubLoader) Load(ctx context.Context, path string) ([]model.Offer, error) {
	s.calls++
	return s.offers, s.err
}

func TestFallbackLoader_S3Succeeds(t *testing.T) {
	s3 := &stubLoader{offers: []model.Offer{{ID: "OFF-S3"}}}
	local := &stubLoader{offers: []model.Offer{{ID: "OFF-LOCAL"}}}

	loader := NewFallbackLoader(s3, local, "catalog/", true, zerolog.Nop())

	offers, err := loader.Load(context.Background(), "offers.json.gz")

	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "OFF-S3", offers[0].ID)
	assert.Equal(t, 0, local.calls)
}

func TestFallbackLoader_FallsBackToLocal(t *testing.T) {
	s3 := &stubLoader{err: errors.New("access denied")}
	local := &stubLoader{offers: []model.Offer{{ID: "OFF-LOCAL"}}}

	loader := NewFallbackLoader(s3, local, "catalog/", true, zerolog.Nop())

	offers, err := loader.Load(context.Background(), "offers.json.gz")

	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "OFF-LOCAL", offers[0].ID)
}

func TestFallbackLoader_S3Disabled(t *testing.T) {
	s3 := &stubLoader{offers: []model.Offer{{ID: "OFF-S3"}}}
	local := &stubLoader{offers: []model.Offer{{ID: "OFF-LOCAL"}}}

	loader := NewFallbackLoader(s3, local, "catalog/", false, zerolog.Nop())

	offers, err := loader.Load(context.Background(), "offers.json.gz")

	require.NoError(t, err)
	assert.Equal(t, "OFF-LOCAL", offers[0].ID)
	assert.Equal(t, 0, s3.calls)
}
