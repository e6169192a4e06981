package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-offers/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// offerRepository implements the OfferRepository interface using
// PostgreSQL. Condition and benefit trees live in JSONB columns.
type offerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(pool *pgxpool.Pool, logger zerolog.Logger) OfferRepository {
	return &offerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "offer").Logger(),
	}
}

const offerColumns = `
	id, name, description, type, is_active, valid_from, valid_until,
	usage_limit_per_patient, total_usage_limit, conditions, benefits,
	priority, is_exclusive, created_at
`

// GetAll retrieves all offers ordered by priority descending.
func (r *offerRepository) GetAll(ctx context.Context) ([]model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY priority DESC, created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query offers")
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer row")
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, *offer)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer rows")
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}

// GetByID retrieves a single offer by its ID.
func (r *offerRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	offer, err := scanOffer(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("offer_id", id).Msg("offer not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("offer_id", id).Msg("failed to get offer")
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	return offer, nil
}

// Create inserts a new offer.
func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	conditions, benefits, err := marshalOfferTrees(offer)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.pool.Exec(ctx, query,
		offer.ID, offer.Name, offer.Description, offer.Type, offer.IsActive,
		offer.ValidFrom, offer.ValidUntil,
		offer.UsageLimitPerPatient, offer.TotalUsageLimit,
		conditions, benefits,
		offer.Priority, offer.IsExclusive, offer.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("offer_id", offer.ID).Msg("failed to create offer")
		return fmt.Errorf("failed to create offer: %w", err)
	}

	r.logger.Debug().Str("offer_id", offer.ID).Msg("offer created")
	return nil
}

// Update replaces an existing offer definition.
func (r *offerRepository) Update(ctx context.Context, offer *model.Offer) error {
	conditions, benefits, err := marshalOfferTrees(offer)
	if err != nil {
		return err
	}

	query := `
		UPDATE offers SET
			name = $2, description = $3, type = $4, is_active = $5,
			valid_from = $6, valid_until = $7,
			usage_limit_per_patient = $8, total_usage_limit = $9,
			conditions = $10, benefits = $11,
			priority = $12, is_exclusive = $13
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		offer.ID, offer.Name, offer.Description, offer.Type, offer.IsActive,
		offer.ValidFrom, offer.ValidUntil,
		offer.UsageLimitPerPatient, offer.TotalUsageLimit,
		conditions, benefits,
		offer.Priority, offer.IsExclusive,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("offer_id", offer.ID).Msg("failed to update offer")
		return fmt.Errorf("failed to update offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOfferNotFound
	}

	return nil
}

// Delete removes an offer by ID.
func (r *offerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("offer_id", id).Msg("failed to delete offer")
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOfferNotFound
	}

	r.logger.Debug().Str("offer_id", id).Msg("offer deleted")
	return nil
}

// UpsertMany inserts or replaces a batch of offers in one batch round
// trip, used by the catalogue import at startup.
func (r *offerRepository) UpsertMany(ctx context.Context, offers []model.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	query := `
		INSERT INTO offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			is_active = EXCLUDED.is_active,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until,
			usage_limit_per_patient = EXCLUDED.usage_limit_per_patient,
			total_usage_limit = EXCLUDED.total_usage_limit,
			conditions = EXCLUDED.conditions,
			benefits = EXCLUDED.benefits,
			priority = EXCLUDED.priority,
			is_exclusive = EXCLUDED.is_exclusive
	`

	batch := &pgx.Batch{}
	for i := range offers {
		offer := &offers[i]
		conditions, benefits, err := marshalOfferTrees(offer)
		if err != nil {
			return err
		}
		batch.Queue(query,
			offer.ID, offer.Name, offer.Description, offer.Type, offer.IsActive,
			offer.ValidFrom, offer.ValidUntil,
			offer.UsageLimitPerPatient, offer.TotalUsageLimit,
			conditions, benefits,
			offer.Priority, offer.IsExclusive, offer.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range offers {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("offer_id", offers[i].ID).Msg("failed to upsert offer")
			return fmt.Errorf("failed to upsert offer %s: %w", offers[i].ID, err)
		}
	}

	r.logger.Info().Int("offer_count", len(offers)).Msg("offer catalogue upserted")
	return nil
}

// marshalOfferTrees serialises the condition and benefit trees for the
// JSONB columns.
func marshalOfferTrees(offer *model.Offer) ([]byte, []byte, error) {
	conditions, err := json.Marshal(offer.Conditions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal offer conditions: %w", err)
	}
	benefits, err := json.Marshal(offer.Benefits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal offer benefits: %w", err)
	}
	return conditions, benefits, nil
}

// scanOffer reads one offer row, decoding the JSONB trees.
func scanOffer(row pgx.Row) (*model.Offer, error) {
	var o model.Offer
	var conditions, benefits []byte

	err := row.Scan(
		&o.ID, &o.Name, &o.Description, &o.Type, &o.IsActive,
		&o.ValidFrom, &o.ValidUntil,
		&o.UsageLimitPerPatient, &o.TotalUsageLimit,
		&conditions, &benefits,
		&o.Priority, &o.IsExclusive, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &o.Conditions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal offer conditions: %w", err)
		}
	}
	if len(benefits) > 0 {
		if err := json.Unmarshal(benefits, &o.Benefits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal offer benefits: %w", err)
		}
	}

	return &o, nil
}
