package repository

import (
	"context"
	"fmt"

	"clinic-offers/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// redemptionRepository implements the RedemptionRepository interface
// using PostgreSQL.
type redemptionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRedemptionRepository creates a new PostgreSQL-backed redemption ledger.
func NewRedemptionRepository(pool *pgxpool.Pool, logger zerolog.Logger) RedemptionRepository {
	return &redemptionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "redemption").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *redemptionRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Record inserts a redemption row within the provided transaction.
func (r *redemptionRepository) Record(ctx context.Context, tx pgx.Tx, redemption *model.OfferRedemption) error {
	query := `
		INSERT INTO offer_redemptions (id, offer_id, patient_id, discount_amount, redeemed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query,
		redemption.ID, redemption.OfferID, redemption.PatientID,
		redemption.DiscountAmount, redemption.RedeemedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("offer_id", redemption.OfferID).
			Str("patient_id", redemption.PatientID).
			Msg("failed to record redemption")
		return fmt.Errorf("failed to record redemption: %w", err)
	}

	r.logger.Debug().
		Str("offer_id", redemption.OfferID).
		Str("patient_id", redemption.PatientID).
		Float64("discount", redemption.DiscountAmount).
		Msg("redemption recorded")

	return nil
}

// CountByOffer returns the total number of redemptions of an offer.
func (r *redemptionRepository) CountByOffer(ctx context.Context, offerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM offer_redemptions WHERE offer_id = $1`, offerID,
	).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("offer_id", offerID).Msg("failed to count redemptions")
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return count, nil
}

// CountByOfferAndPatient returns how many times a patient has redeemed an offer.
func (r *redemptionRepository) CountByOfferAndPatient(ctx context.Context, offerID, patientID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM offer_redemptions WHERE offer_id = $1 AND patient_id = $2`,
		offerID, patientID,
	).Scan(&count)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("offer_id", offerID).
			Str("patient_id", patientID).
			Msg("failed to count patient redemptions")
		return 0, fmt.Errorf("failed to count patient redemptions: %w", err)
	}
	return count, nil
}
