package service

import (
	"context"
	"fmt"
	"time"

	"clinic-offers/internal/model"
	"clinic-offers/internal/offer"
	"clinic-offers/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// pricingService implements PricingService.
type pricingService struct {
	patientRepo    repository.PatientRepository
	serviceRepo    repository.ServiceRepository
	offerRepo      repository.OfferRepository
	redemptionRepo repository.RedemptionRepository
	evaluator      offer.Evaluator
	logger         zerolog.Logger
}

// NewPricingService creates a new pricing service.
func NewPricingService(
	patientRepo repository.PatientRepository,
	serviceRepo repository.ServiceRepository,
	offerRepo repository.OfferRepository,
	redemptionRepo repository.RedemptionRepository,
	evaluator offer.Evaluator,
	logger zerolog.Logger,
) PricingService {
	return &pricingService{
		patientRepo:    patientRepo,
		serviceRepo:    serviceRepo,
		offerRepo:      offerRepo,
		redemptionRepo: redemptionRepo,
		evaluator:      evaluator,
		logger:         logger.With().Str("service", "pricing").Logger(),
	}
}

// Quote prices a cart for a patient and evaluates the offer catalogue
// against it. The clock is read once here so the whole evaluation sees a
// single consistent "now".
func (s *pricingService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error) {
	if err := s.validateQuoteRequest(req); err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.GetByID(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	if patient == nil {
		s.logger.Warn().Str("patient_id", req.PatientID).Msg("quote for unknown patient")
		return nil, model.ErrPatientNotFound
	}

	services, err := s.serviceRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load service catalogue: %w", err)
	}

	cart, err := buildCart(req.Items, services)
	if err != nil {
		return nil, err
	}

	allOffers, err := s.offerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}

	usable, err := s.filterUsageLimits(ctx, allOffers, req.PatientID)
	if err != nil {
		return nil, err
	}

	applied := s.evaluator.Evaluate(&offer.Request{
		Cart:     cart,
		Patient:  patient,
		Offers:   usable,
		Services: services,
		Now:      time.Now(),
	})

	s.logger.Info().
		Str("patient_id", req.PatientID).
		Int("cart_lines", len(cart)).
		Int("offers_considered", len(usable)).
		Int("offers_applied", len(applied)).
		Msg("quote evaluated")

	return &model.QuoteResponse{
		PatientID: req.PatientID,
		Cart:      cart,
		CartTotal: model.CartTotal(cart),
		Offers:    applied,
	}, nil
}

// Redeem records one application of an offer in the redemption ledger.
func (s *pricingService) Redeem(ctx context.Context, req *model.RedeemRequest) (*model.OfferRedemption, error) {
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

	// Usage limits are re-checked at confirm time; the quote may be stale.
	if err := s.checkUsageLimits(ctx, o, req.PatientID); err != nil {
		return nil, err
	}

	tx, err := s.redemptionRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem offer: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	redemption := &model.OfferRedemption{
		ID:             uuid.New(),
		OfferID:        req.OfferID,
		PatientID:      req.PatientID,
		DiscountAmount: req.DiscountAmount,
		RedeemedAt:     time.Now(),
	}

	if err = s.redemptionRepo.Record(ctx, tx, redemption); err != nil {
		return nil, fmt.Errorf("failed to redeem offer: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to redeem offer: %w", err)
	}

	s.logger.Info().
		Str("offer_id", req.OfferID).
		Str("patient_id", req.PatientID).
		Float64("discount", req.DiscountAmount).
		Msg("offer redeemed")

	return redemption, nil
}

// filterUsageLimits drops offers whose redemption caps are exhausted
// before they reach the engine. The engine itself never sees the ledger.
func (s *pricingService) filterUsageLimits(ctx context.Context, offers []model.Offer, patientID string) ([]model.Offer, error) {
	usable := make([]model.Offer, 0, len(offers))
	for i := range offers {
		err := s.checkUsageLimits(ctx, &offers[i], patientID)
		if err == model.ErrUsageLimitReached {
			s.logger.Debug().
				Str("offer_id", offers[i].ID).
				Msg("offer excluded, usage limit reached")
			continue
		}
		if err != nil {
			return nil, err
		}
		usable = append(usable, offers[i])
	}
	return usable, nil
}

func (s *pricingService) checkUsageLimits(ctx context.Context, o *model.Offer, patientID string) error {
	if o.TotalUsageLimit > 0 {
		count, err := s.redemptionRepo.CountByOffer(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("failed to check usage limit: %w", err)
		}
		if count >= o.TotalUsageLimit {
			return model.ErrUsageLimitReached
		}
	}
	if o.UsageLimitPerPatient > 0 {
		count, err := s.redemptionRepo.CountByOfferAndPatient(ctx, o.ID, patientID)
		if err != nil {
			return fmt.Errorf("failed to check patient usage limit: %w", err)
		}
		if count >= o.UsageLimitPerPatient {
			return model.ErrUsageLimitReached
		}
	}
	return nil
}

// buildCart prices the requested lines from the service catalogue.
func buildCart(items []model.QuoteItemRequest, services []model.Service) ([]model.CartItem, error) {
	byID := make(map[string]*model.Service, len(services))
	for i := range services {
		byID[services[i].ID] = &services[i]
	}

	cart := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		svc, ok := byID[item.ServiceID]
		if !ok {
			return nil, model.ErrServiceNotFound
		}
		cart = append(cart, model.CartItem{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Price:       svc.Price,
			Quantity:    item.Quantity,
		})
	}
	return cart, nil
}

// validateQuoteRequest validates the quote request.
func (s *pricingService) validateQuoteRequest(req *model.QuoteRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "quote request is nil")
	}
	if req.PatientID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "patientId is required")
	}

	for i, item := range req.Items {
		if item.ServiceID == "" {
			return model.NewDomainError(model.ErrCodeMissingField,
				fmt.Sprintf("item %d: serviceId is required", i))
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("service_id", item.ServiceID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
