package service

import (
	"context"
	"fmt"
	"time"

	"clinic-offers/internal/model"
	"clinic-offers/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// walletService implements WalletService.
type walletService struct {
	walletRepo  repository.WalletRepository
	offerRepo   repository.OfferRepository
	serviceRepo repository.ServiceRepository
	logger      zerolog.Logger
}

// NewWalletService creates a new wallet service.
func NewWalletService(
	walletRepo repository.WalletRepository,
	offerRepo repository.OfferRepository,
	serviceRepo repository.ServiceRepository,
	logger zerolog.Logger,
) WalletService {
	return &walletService{
		walletRepo:  walletRepo,
		offerRepo:   offerRepo,
		serviceRepo: serviceRepo,
		logger:      logger.With().Str("service", "wallet").Logger(),
	}
}

// GetWallet retrieves a patient's wallet with credits.
func (s *walletService) GetWallet(ctx context.Context, patientID string) (*model.PatientWallet, error) {
	wallet, err := s.walletRepo.GetWallet(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

// TopUp adds cash balance to a patient wallet.
func (s *walletService) TopUp(ctx context.Context, patientID string, amount float64) error {
	if amount <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "top-up amount must be positive")
	}

	if err := s.walletRepo.AddCash(ctx, patientID, amount); err != nil {
		return fmt.Errorf("failed to top up wallet: %w", err)
	}

	s.logger.Info().
		Str("patient_id", patientID).
		Float64("amount", amount).
		Msg("wallet topped up")

	return nil
}

// PurchasePackage creates a pending bill for a grant_package offer. The
// credits to be granted are resolved now and frozen on the purchase, so
// a later offer edit cannot change what was sold.
func (s *walletService) PurchasePackage(ctx context.Context, req *model.PackagePurchaseRequest) (*model.PackagePurchase, error) {
	if req == nil || req.PatientID == "" || req.OfferID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "patientId and offerId are required")
	}

	o, err := s.offerRepo.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}
	if o == nil {
		return nil, model.ErrOfferNotFound
	}
	if len(o.Benefits) == 0 || o.Benefits[0].Type != model.BenefitGrantPackage {
		return nil, model.NewDomainError(model.ErrCodeInvalidOffer, "offer does not grant a package")
	}

	credits, err := s.resolvePackageCredits(ctx, &o.Benefits[0])
	if err != nil {
		return nil, err
	}

	purchase := &model.PackagePurchase{
		ID:        uuid.New(),
		PatientID: req.PatientID,
		OfferID:   o.ID,
		OfferName: o.Name,
		Price:     o.Benefits[0].Parameters.FixedPrice,
		Status:    model.PurchasePending,
		Credits:   credits,
		CreatedAt: time.Now(),
	}

	if err := s.walletRepo.CreatePackagePurchase(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create package purchase: %w", err)
	}

	s.logger.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("offer_id", o.ID).
		Str("patient_id", req.PatientID).
		Float64("price", purchase.Price).
		Msg("package purchase created")

	return purchase, nil
}

// PayPackage settles a pending purchase and grants its credits to the
// patient wallet in one transaction.
func (s *walletService) PayPackage(ctx context.Context, purchaseID uuid.UUID) error {
	purchase, err := s.walletRepo.GetPackagePurchase(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to load purchase: %w", err)
	}
	if purchase == nil {
		return model.NewDomainError(model.ErrCodeOfferNotFound, "package purchase not found")
	}

	// Credit expiry comes from the offer's validity-days parameter.
	var expiresAt *time.Time
	if o, err := s.offerRepo.GetByID(ctx, purchase.OfferID); err == nil && o != nil && len(o.Benefits) > 0 {
		if days := o.Benefits[0].Parameters.PackageValidityDays; days > 0 {
			t := time.Now().AddDate(0, 0, days)
			expiresAt = &t
		}
	}

	tx, err := s.walletRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to pay package: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.walletRepo.MarkPurchasePaid(ctx, tx, purchaseID); err != nil {
		return fmt.Errorf("failed to pay package: %w", err)
	}

	for _, item := range purchase.Credits {
		credit := &model.ServiceCredit{
			ID:          uuid.New(),
			PatientID:   purchase.PatientID,
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			Remaining:   item.Quantity,
			Total:       item.Quantity,
			UnitType:    item.UnitType,
			PackageID:   purchase.OfferID,
			ExpiresAt:   expiresAt,
		}
		if err = s.walletRepo.UpsertCredit(ctx, tx, credit); err != nil {
			return fmt.Errorf("failed to grant credit: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to pay package: %w", err)
	}

	s.logger.Info().
		Str("purchase_id", purchaseID.String()).
		Str("patient_id", purchase.PatientID).
		Int("credit_count", len(purchase.Credits)).
		Msg("package paid, credits granted")

	return nil
}

// RedeemCredit consumes units of a patient's service credit.
func (s *walletService) RedeemCredit(ctx context.Context, patientID string, req *model.CreditRedeemRequest) error {
	if req == nil || req.ServiceID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "serviceId is required")
	}
	units := req.Units
	if units <= 0 {
		units = 1
	}

	if err := s.walletRepo.RedeemCredit(ctx, patientID, req.ServiceID, units); err != nil {
		if err == model.ErrInsufficientCredits {
			return err
		}
		return fmt.Errorf("failed to redeem credit: %w", err)
	}

	s.logger.Info().
		Str("patient_id", patientID).
		Str("service_id", req.ServiceID).
		Int("units", units).
		Msg("service credit redeemed")

	return nil
}

// resolvePackageCredits expands a grant_package benefit into the credit
// items it grants: the explicit packageCredits list when present, else
// the single-service triple.
func (s *walletService) resolvePackageCredits(ctx context.Context, benefit *model.OfferBenefit) ([]model.PackageCreditItem, error) {
	if len(benefit.Parameters.PackageCredits) > 0 {
		return benefit.Parameters.PackageCredits, nil
	}

	params := &benefit.Parameters
	if params.PackageServiceID == "" || params.PackageSessions <= 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidOffer, "package benefit grants no credits")
	}

	serviceName := params.PackageServiceID
	services, err := s.serviceRepo.GetByIDs(ctx, []string{params.PackageServiceID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve package service: %w", err)
	}
	if len(services) > 0 {
		serviceName = services[0].Name
	}

	return []model.PackageCreditItem{{
		ServiceID:   params.PackageServiceID,
		ServiceName: serviceName,
		Quantity:    params.PackageSessions,
		UnitType:    model.UnitSession,
	}}, nil
}
