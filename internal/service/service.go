package service

import (
	"context"

	"clinic-offers/internal/model"

	"github.com/google/uuid"
)

// PricingService defines the billing-screen pricing flow around the
// offer engine.
type PricingService interface {
	// Quote prices a cart for a patient and returns the applicable
	// offers. Offers that exhausted their usage limits are excluded
	// before evaluation.
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error)

	// Redeem records one application of an offer in the redemption
	// ledger on billing confirm.
	Redeem(ctx context.Context, req *model.RedeemRequest) (*model.OfferRedemption, error)
}

// OfferService defines operations for offer catalogue management.
type OfferService interface {
	// ListOffers retrieves all offers.
	ListOffers(ctx context.Context) ([]model.Offer, error)

	// GetOffer retrieves a single offer by ID.
	GetOffer(ctx context.Context, id string) (*model.Offer, error)

	// CreateOffer validates and stores a new offer.
	CreateOffer(ctx context.Context, offer *model.Offer) error

	// UpdateOffer validates and replaces an existing offer.
	UpdateOffer(ctx context.Context, offer *model.Offer) error

	// DeleteOffer removes an offer by ID.
	DeleteOffer(ctx context.Context, id string) error

	// ImportCatalog upserts a batch of offers loaded from a catalogue
	// document.
	ImportCatalog(ctx context.Context, offers []model.Offer) error
}

// WalletService defines operations on patient wallets and package
// entitlements.
type WalletService interface {
	// GetWallet retrieves a patient's wallet with credits.
	GetWallet(ctx context.Context, patientID string) (*model.PatientWallet, error)

	// TopUp adds cash balance to a patient wallet.
	TopUp(ctx context.Context, patientID string, amount float64) error

	// PurchasePackage creates a pending bill for a grant_package offer.
	PurchasePackage(ctx context.Context, req *model.PackagePurchaseRequest) (*model.PackagePurchase, error)

	// PayPackage settles a pending purchase and grants its credits to
	// the patient wallet.
	PayPackage(ctx context.Context, purchaseID uuid.UUID) error

	// RedeemCredit consumes units of a patient's service credit.
	RedeemCredit(ctx context.Context, patientID string, req *model.CreditRedeemRequest) error
}
