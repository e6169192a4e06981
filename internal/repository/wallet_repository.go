package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-offers/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// walletRepository implements the WalletRepository interface using PostgreSQL.
type walletRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWalletRepository creates a new PostgreSQL-backed wallet repository.
func NewWalletRepository(pool *pgxpool.Pool, logger zerolog.Logger) WalletRepository {
	return &walletRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wallet").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *walletRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetWallet retrieves a patient's wallet with its credits. A patient
// without a wallet row gets an empty wallet.
func (r *walletRepository) GetWallet(ctx context.Context, patientID string) (*model.PatientWallet, error) {
	wallet := &model.PatientWallet{PatientID: patientID}

	err := r.pool.QueryRow(ctx,
		`SELECT cash_balance FROM wallets WHERE patient_id = $1`, patientID,
	).Scan(&wallet.CashBalance)
	if err != nil && err != pgx.ErrNoRows {
		r.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to get wallet")
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, service_id, service_name, remaining, total,
		       unit_type, package_id, expires_at
		FROM service_credits
		WHERE patient_id = $1 AND remaining > 0
		ORDER BY service_name
	`, patientID)
	if err != nil {
		r.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to query credits")
		return nil, fmt.Errorf("failed to query credits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.ServiceCredit
		err := rows.Scan(&c.ID, &c.PatientID, &c.ServiceID, &c.ServiceName,
			&c.Remaining, &c.Total, &c.UnitType, &c.PackageID, &c.ExpiresAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan credit row")
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		wallet.Credits = append(wallet.Credits, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating credit rows")
		return nil, fmt.Errorf("error iterating credits: %w", err)
	}

	return wallet, nil
}

// AddCash increases a patient's cash balance, creating the wallet row if needed.
func (r *walletRepository) AddCash(ctx context.Context, patientID string, amount float64) error {
	query := `
		INSERT INTO wallets (patient_id, cash_balance)
		VALUES ($1, $2)
		ON CONFLICT (patient_id) DO UPDATE SET cash_balance = wallets.cash_balance + $2
	`

	_, err := r.pool.Exec(ctx, query, patientID, amount)
	if err != nil {
		r.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to add cash")
		return fmt.Errorf("failed to add cash: %w", err)
	}

	return nil
}

// DeductCash decreases a patient's cash balance, rejecting overdrafts.
func (r *walletRepository) DeductCash(ctx context.Context, patientID string, amount float64) error {
	query := `
		UPDATE wallets
		SET cash_balance = cash_balance - $2
		WHERE patient_id = $1 AND cash_balance >= $2
	`

	tag, err := r.pool.Exec(ctx, query, patientID, amount)
	if err != nil {
		r.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to deduct cash")
		return fmt.Errorf("failed to deduct cash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientBalance
	}

	return nil
}

// UpsertCredit adds a service credit within the provided transaction,
// merging into an existing credit for the same service and package.
func (r *walletRepository) UpsertCredit(ctx context.Context, tx pgx.Tx, credit *model.ServiceCredit) error {
	query := `
		INSERT INTO service_credits
			(id, patient_id, service_id, service_name, remaining, total, unit_type, package_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (patient_id, service_id, package_id) DO UPDATE SET
			remaining = service_credits.remaining + EXCLUDED.remaining,
			total = service_credits.total + EXCLUDED.total
	`

	_, err := tx.Exec(ctx, query,
		credit.ID, credit.PatientID, credit.ServiceID, credit.ServiceName,
		credit.Remaining, credit.Total, credit.UnitType, credit.PackageID, credit.ExpiresAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("patient_id", credit.PatientID).
			Str("service_id", credit.ServiceID).
			Msg("failed to upsert credit")
		return fmt.Errorf("failed to upsert credit: %w", err)
	}

	return nil
}

// RedeemCredit decrements the remaining units of a patient's credit for a
// service, oldest credit first.
func (r *walletRepository) RedeemCredit(ctx context.Context, patientID, serviceID string, units int) error {
	query := `
		UPDATE service_credits
		SET remaining = remaining - $3
		WHERE id = (
			SELECT id FROM service_credits
			WHERE patient_id = $1 AND service_id = $2 AND remaining >= $3
			ORDER BY expires_at NULLS LAST
			LIMIT 1
		)
	`

	tag, err := r.pool.Exec(ctx, query, patientID, serviceID, units)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("patient_id", patientID).
			Str("service_id", serviceID).
			Msg("failed to redeem credit")
		return fmt.Errorf("failed to redeem credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientCredits
	}

	return nil
}

// CreatePackagePurchase inserts a pending package purchase.
func (r *walletRepository) CreatePackagePurchase(ctx context.Context, purchase *model.PackagePurchase) error {
	credits, err := json.Marshal(purchase.Credits)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase credits: %w", err)
	}

	query := `
		INSERT INTO package_purchases
			(id, patient_id, offer_id, offer_name, price, status, credits, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		purchase.ID, purchase.PatientID, purchase.OfferID, purchase.OfferName,
		purchase.Price, purchase.Status, credits, purchase.CreatedAt, purchase.PaidAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("purchase_id", purchase.ID.String()).
			Msg("failed to create package purchase")
		return fmt.Errorf("failed to create package purchase: %w", err)
	}

	r.logger.Debug().
		Str("purchase_id", purchase.ID.String()).
		Str("offer_id", purchase.OfferID).
		Msg("package purchase created")

	return nil
}

// GetPackagePurchase retrieves a purchase by ID.
func (r *walletRepository) GetPackagePurchase(ctx context.Context, id uuid.UUID) (*model.PackagePurchase, error) {
	query := `
		SELECT id, patient_id, offer_id, offer_name, price, status, credits, created_at, paid_at
		FROM package_purchases
		WHERE id = $1
	`

	var p model.PackagePurchase
	var credits []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.PatientID, &p.OfferID, &p.OfferName,
		&p.Price, &p.Status, &credits, &p.CreatedAt, &p.PaidAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("purchase_id", id.String()).Msg("purchase not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("purchase_id", id.String()).Msg("failed to get purchase")
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	if len(credits) > 0 {
		if err := json.Unmarshal(credits, &p.Credits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal purchase credits: %w", err)
		}
	}

	return &p, nil
}

// MarkPurchasePaid flips a pending purchase to paid within the provided
// transaction.
func (r *walletRepository) MarkPurchasePaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE package_purchases
		SET status = $2, paid_at = NOW()
		WHERE id = $1 AND status = $3
	`

	tag, err := tx.Exec(ctx, query, id, model.PurchasePaid, model.PurchasePending)
	if err != nil {
		r.logger.Error().Err(err).Str("purchase_id", id.String()).Msg("failed to mark purchase paid")
		return fmt.Errorf("failed to mark purchase paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %s is not pending", id)
	}

	return nil
}
