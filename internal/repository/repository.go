package repository

import (
	"context"

	"clinic-offers/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OfferRepository defines the interface for offer data access operations.
type OfferRepository interface {
	// GetAll retrieves all offers ordered by priority descending.
	GetAll(ctx context.Context) ([]model.Offer, error)

	// GetByID retrieves a single offer by its ID. Returns nil, nil when
	// the offer does not exist.
	GetByID(ctx context.Context, id string) (*model.Offer, error)

	// Create inserts a new offer.
	Create(ctx context.Context, offer *model.Offer) error

	// Update replaces an existing offer definition.
	Update(ctx context.Context, offer *model.Offer) error

	// Delete removes an offer by ID.
	Delete(ctx context.Context, id string) error

	// UpsertMany inserts or replaces a batch of offers, used by the
	// catalogue import at startup.
	UpsertMany(ctx context.Context, offers []model.Offer) error
}

// PatientRepository defines the interface for patient data access.
type PatientRepository interface {
	// GetByID retrieves a patient by ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*model.Patient, error)
}

// ServiceRepository defines the interface for the treatment catalogue.
type ServiceRepository interface {
	// GetAll retrieves all active services.
	GetAll(ctx context.Context) ([]model.Service, error)

	// GetByIDs retrieves multiple services by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Service, error)
}

// RedemptionRepository defines the interface for the offer redemption
// ledger backing usage-limit checks.
type RedemptionRepository interface {
	// Record inserts a redemption row within the provided transaction.
	Record(ctx context.Context, tx pgx.Tx, redemption *model.OfferRedemption) error

	// CountByOffer returns the total number of redemptions of an offer.
	CountByOffer(ctx context.Context, offerID string) (int, error)

	// CountByOfferAndPatient returns how many times a patient has
	// redeemed an offer.
	CountByOfferAndPatient(ctx context.Context, offerID, patientID string) (int, error)

	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// WalletRepository defines the interface for patient wallets, service
// credits and package purchases.
type WalletRepository interface {
	// GetWallet retrieves a patient's wallet with its credits. A patient
	// without a wallet row gets an empty wallet, not an error.
	GetWallet(ctx context.Context, patientID string) (*model.PatientWallet, error)

	// AddCash increases a patient's cash balance, creating the wallet
	// row if needed.
	AddCash(ctx context.Context, patientID string, amount float64) error

	// DeductCash decreases a patient's cash balance. Returns
	// model.ErrInsufficientBalance when the balance would go negative.
	DeductCash(ctx context.Context, patientID string, amount float64) error

	// UpsertCredit adds a service credit, merging into an existing
	// credit for the same service and package.
	UpsertCredit(ctx context.Context, tx pgx.Tx, credit *model.ServiceCredit) error

	// RedeemCredit decrements the remaining units of a credit. Returns
	// model.ErrInsufficientCredits when not enough units remain.
	RedeemCredit(ctx context.Context, patientID, serviceID string, units int) error

	// CreatePackagePurchase inserts a pending package purchase.
	CreatePackagePurchase(ctx context.Context, purchase *model.PackagePurchase) error

	// GetPackagePurchase retrieves a purchase by ID. Returns nil, nil
	// when absent.
	GetPackagePurchase(ctx context.Context, id uuid.UUID) (*model.PackagePurchase, error)

	// MarkPurchasePaid flips a pending purchase to paid within the
	// provided transaction.
	MarkPurchasePaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}
