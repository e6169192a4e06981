package offer

import (
	"sort"

	"clinic-offers/internal/model"

	"github.com/rs/zerolog"
)

// engine implements Evaluator.
type engine struct {
	logger zerolog.Logger
	// No mutex needed - the engine holds no state between evaluations
}

// NewEngine creates a new offer evaluation engine.
func NewEngine(logger zerolog.Logger) Evaluator {
	return &engine{
		logger: logger.With().Str("component", "offer-engine").Logger(),
	}
}

// Evaluate matches the offer catalogue against a cart and patient.
//
// Candidates are filtered on active/validity window, sorted by priority
// descending, checked against their condition trees, priced via their
// first benefit, and finally resolved for exclusivity: if any exclusive
// offer matched, only the exclusive offer with the highest discount is
// returned and all non-exclusive matches are discarded.
func (e *engine) Evaluate(req *Request) []model.AppliedOffer {
	if req == nil {
		return nil
	}

	candidates := make([]model.Offer, 0, len(req.Offers))
	for _, o := range req.Offers {
		if !o.IsActive {
			continue
		}
		if o.ValidFrom != nil && o.ValidFrom.After(req.Now) {
			continue
		}
		if o.ValidUntil != nil && o.ValidUntil.Before(req.Now) {
			continue
		}
		candidates = append(candidates, o)
	}

	// Priority only decides ordering of the result and which exclusive
	// offer is considered first; it never short-circuits evaluation.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	applicable := make([]model.AppliedOffer, 0, len(candidates))
	for _, o := range candidates {
		if !e.conditionsMatch(&o, req) {
			continue
		}

		applied := calculateBenefit(&o, req.Cart)
		if applied == nil {
			// Offer without benefits never surfaces.
			continue
		}

		// Entitlement-only offers (grant_package) are kept even at zero
		// discount so callers can open the package-purchase flow.
		if applied.DiscountAmount > 0 || o.Benefits[0].Type == model.BenefitGrantPackage {
			e.logger.Debug().
				Str("offer_id", o.ID).
				Str("offer_name", o.Name).
				Float64("discount", applied.DiscountAmount).
				Msg("offer matched")
			applicable = append(applicable, *applied)
		}
	}

	return resolveExclusivity(applicable)
}

// conditionsMatch evaluates the offer's top-level conditions as an
// implicit AND. An offer with no conditions matches universally.
func (e *engine) conditionsMatch(o *model.Offer, req *Request) bool {
	for i := range o.Conditions {
		if !evaluateCondition(&o.Conditions[i], req) {
			return false
		}
	}
	return true
}

// resolveExclusivity partitions matches into exclusive and non-exclusive
// sets. Any exclusive match suppresses all non-exclusive ones; among
// exclusives the highest discount wins, first-found on ties.
func resolveExclusivity(applied []model.AppliedOffer) []model.AppliedOffer {
	var best *model.AppliedOffer
	nonExclusive := make([]model.AppliedOffer, 0, len(applied))

	for i := range applied {
		if !applied[i].Offer.IsExclusive {
			nonExclusive = append(nonExclusive, applied[i])
			continue
		}
		if best == nil || applied[i].DiscountAmount > best.DiscountAmount {
			best = &applied[i]
		}
	}

	if best != nil {
		return []model.AppliedOffer{*best}
	}
	return nonExclusive
}
