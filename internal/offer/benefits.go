package offer

import (
	"fmt"
	"math"

	"clinic-offers/internal/model"
)

// Defaults for free_session offers missing explicit quantities.
const (
	defaultBuyQuantity  = 2
	defaultFreeQuantity = 1
)

// calculateBenefit prices an offer whose conditions already matched.
// Only the first benefit is evaluated; any further entries ride along on
// the offer untouched. Returns nil when the offer has no benefits at
// all. Unhandled benefit types price to a zero discount.
func calculateBenefit(o *model.Offer, cart []model.CartItem) *model.AppliedOffer {
	if len(o.Benefits) == 0 {
		return nil
	}
	benefit := &o.Benefits[0]

	cartTotal := model.CartTotal(cart)
	var discount float64
	description := o.Name

	switch benefit.Type {
	case model.BenefitPercentOff:
		discount = cartTotal * (benefit.Parameters.Percent / 100)
		description += fmt.Sprintf(" (%g%% Off)", benefit.Parameters.Percent)

	case model.BenefitFixedAmountOff:
		// Flat amount, deliberately not capped at the cart total; the
		// billing flow clamps the payable figure.
		discount = benefit.Parameters.FixedAmount
		description += fmt.Sprintf(" (EGP %g Off)", discount)

	case model.BenefitFixedPrice:
		// Bundle price override: charge FixedPrice for the whole cart.
		if benefit.Parameters.FixedPrice > 0 {
			discount = math.Max(0, cartTotal-benefit.Parameters.FixedPrice)
			description += fmt.Sprintf(" (Bundle Price: EGP %g)", benefit.Parameters.FixedPrice)
		}

	case model.BenefitGrantPackage:
		// Pure entitlement: no discount on the current cart. The offer
		// still surfaces so the caller can start the package-purchase
		// flow, priced by Parameters.FixedPrice when present.

	case model.BenefitFreeSession:
		discount = freeSessionDiscount(benefit, cart)
		if discount > 0 {
			buyQty, freeQty := freeSessionQuantities(benefit)
			description += fmt.Sprintf(" (Buy %d Get %d Free)", buyQty, freeQty)
		}
	}

	return &model.AppliedOffer{
		Offer:          *o,
		DiscountAmount: discount,
		FinalPrice:     cartTotal - discount,
		Description:    description,
	}
}

// freeSessionDiscount computes the Buy-X-Get-Y discount: for every full
// block of buy+free units among qualifying lines, the free units are
// priced at the cheapest qualifying line's unit price.
func freeSessionDiscount(benefit *model.OfferBenefit, cart []model.CartItem) float64 {
	buyQty, freeQty := freeSessionQuantities(benefit)

	qualifying := cart
	if targetID := benefit.Parameters.TargetServiceID; targetID != "" {
		qualifying = nil
		for _, item := range cart {
			if item.ServiceID == targetID {
				qualifying = append(qualifying, item)
			}
		}
	}

	totalQty := 0
	for _, item := range qualifying {
		totalQty += item.Quantity
	}
	if totalQty < buyQty {
		return 0
	}

	freeItems := totalQty / (buyQty + freeQty) * freeQty
	if freeItems == 0 || len(qualifying) == 0 {
		return 0
	}

	cheapest := qualifying[0].Price
	for _, item := range qualifying[1:] {
		if item.Price < cheapest {
			cheapest = item.Price
		}
	}

	return float64(freeItems) * cheapest
}

func freeSessionQuantities(benefit *model.OfferBenefit) (int, int) {
	buyQty := benefit.Parameters.BuyQuantity
	if buyQty <= 0 {
		buyQty = defaultBuyQuantity
	}
	freeQty := benefit.Parameters.FreeQuantity
	if freeQty <= 0 {
		freeQty = defaultFreeQuantity
	}
	return buyQty, freeQty
}
