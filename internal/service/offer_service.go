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

// offerService implements OfferService.
type offerService struct {
	offerRepo repository.OfferRepository
	logger    zerolog.Logger
}

// NewOfferService creates a new offer management service.
func NewOfferService(offerRepo repository.OfferRepository, logger zerolog.Logger) OfferService {
	return &offerService{
		offerRepo: offerRepo,
		logger:    logger.With().Str("service", "offer").Logger(),
	}
}

// ListOffers retrieves all offers.
func (s *offerService) ListOffers(ctx context.Context) ([]model.Offer, error) {
	offers, err := s.offerRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list offers")
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// GetOffer retrieves a single offer by ID.
func (s *offerService) GetOffer(ctx context.Context, id string) (*model.Offer, error) {
	o, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("offer_id", id).Msg("failed to get offer")
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return o, nil
}

// CreateOffer validates and stores a new offer.
func (s *offerService) CreateOffer(ctx context.Context, o *model.Offer) error {
	if err := s.validateOffer(o); err != nil {
		return err
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	if err := s.offerRepo.Create(ctx, o); err != nil {
		s.logger.Error().Err(err).Str("offer_id", o.ID).Msg("failed to create offer")
		return fmt.Errorf("failed to create offer: %w", err)
	}

	s.logger.Info().Str("offer_id", o.ID).Str("name", o.Name).Msg("offer created")
	return nil
}

// UpdateOffer validates and replaces an existing offer.
func (s *offerService) UpdateOffer(ctx context.Context, o *model.Offer) error {
	if o.ID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "offer ID is required")
	}
	if err := s.validateOffer(o); err != nil {
		return err
	}

	if err := s.offerRepo.Update(ctx, o); err != nil {
		if err == model.ErrOfferNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("offer_id", o.ID).Msg("failed to update offer")
		return fmt.Errorf("failed to update offer: %w", err)
	}

	s.logger.Info().Str("offer_id", o.ID).Msg("offer updated")
	return nil
}

// DeleteOffer removes an offer by ID.
func (s *offerService) DeleteOffer(ctx context.Context, id string) error {
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		if err == model.ErrOfferNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("offer_id", id).Msg("failed to delete offer")
		return fmt.Errorf("failed to delete offer: %w", err)
	}

	s.logger.Info().Str("offer_id", id).Msg("offer deleted")
	return nil
}

// ImportCatalog upserts a batch of offers loaded from a catalogue
// document. Invalid entries abort the whole import.
func (s *offerService) ImportCatalog(ctx context.Context, offers []model.Offer) error {
	for i := range offers {
		if err := s.validateOffer(&offers[i]); err != nil {
			s.logger.Error().
				Err(err).
				Str("offer_id", offers[i].ID).
				Msg("catalogue entry rejected")
			return fmt.Errorf("invalid catalogue entry %s: %w", offers[i].ID, err)
		}
		if offers[i].CreatedAt.IsZero() {
			offers[i].CreatedAt = time.Now()
		}
	}

	if err := s.offerRepo.UpsertMany(ctx, offers); err != nil {
		return fmt.Errorf("failed to import catalogue: %w", err)
	}

	s.logger.Info().Int("offer_count", len(offers)).Msg("offer catalogue imported")
	return nil
}

// validateOffer checks structural invariants at authoring time. Unknown
// condition and benefit types are allowed through: the engine treats
// them as forward-compatible no-ops rather than errors.
func (s *offerService) validateOffer(o *model.Offer) error {
	if o == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "offer is nil")
	}
	if o.Name == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "offer name is required")
	}
	if len(o.Benefits) == 0 {
		return model.NewDomainError(model.ErrCodeInvalidOffer, "offer must have at least one benefit")
	}

	if b := o.Benefits[0]; b.Type == model.BenefitPercentOff {
		if b.Parameters.Percent <= 0 || b.Parameters.Percent > 100 {
			return model.NewDomainError(model.ErrCodeInvalidOffer, "percent must be in (0, 100]")
		}
	}

	if o.ValidFrom != nil && o.ValidUntil != nil && o.ValidUntil.Before(*o.ValidFrom) {
		return model.NewDomainError(model.ErrCodeInvalidOffer, "validUntil precedes validFrom")
	}

	for i := range o.Conditions {
		if err := validateCondition(&o.Conditions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateCondition enforces the tree invariant: only group nodes carry
// children or logic.
func validateCondition(c *model.OfferCondition) error {
	if c.Type == model.ConditionGroup {
		for i := range c.Children {
			if err := validateCondition(&c.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if len(c.Children) > 0 || c.Logic != "" {
		return model.NewDomainError(model.ErrCodeInvalidOffer,
			fmt.Sprintf("condition type %q cannot have children or logic", c.Type))
	}
	return nil
}
