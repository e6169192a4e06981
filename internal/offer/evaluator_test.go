package offer

import (
	"testing"
	"time"

	"clinic-offers/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalNow = time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)

func testPatient() *model.Patient {
	return &model.Patient{
		ID:        "PAT-001",
		FirstName: "Mona",
		LastName:  "Hassan",
		Gender:    "female",
		SkinType:  3,
		CreatedAt: evalNow.AddDate(-1, 0, 0),
	}
}

func testCart() []model.CartItem {
	return []model.CartItem{
		{ServiceID: "SVC-HYDRA", ServiceName: "HydraFacial", Price: 800, Quantity: 1},
		{ServiceID: "SVC-PEEL", ServiceName: "Chemical Peel", Price: 600, Quantity: 1},
	}
}

func percentOffer(id string, percent float64) model.Offer {
	return model.Offer{
		ID:       id,
		Name:     id,
		Type:     model.OfferTypePercentage,
		IsActive: true,
		Benefits: []model.OfferBenefit{
			{Type: model.BenefitPercentOff, Parameters: model.BenefitParameters{Percent: percent}},
		},
	}
}

func evalRequest(offers ...model.Offer) *Request {
	return &Request{
		Cart:    testCart(),
		Patient: testPatient(),
		Offers:  offers,
		Now:     evalNow,
	}
}

func TestEngine_Evaluate_ValidityWindow(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	past := evalNow.AddDate(0, 0, -10)
	future := evalNow.AddDate(0, 0, 10)

	notStarted := percentOffer("not-started", 10)
	notStarted.ValidFrom = &future

	expired := percentOffer("expired", 10)
	expired.ValidUntil = &past

	current := percentOffer("current", 10)
	current.ValidFrom = &past
	current.ValidUntil = &future

	results := engine.Evaluate(evalRequest(notStarted, expired, current))

	require.Len(t, results, 1)
	assert.Equal(t, "current", results[0].Offer.ID)
}

func TestEngine_Evaluate_InactiveExcluded(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	inactive := percentOffer("inactive", 50)
	inactive.IsActive = false

	results := engine.Evaluate(evalRequest(inactive))
	assert.Empty(t, results)
}

func TestEngine_Evaluate_TopLevelConditionsAreANDed(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	offer := percentOffer("two-conditions", 10)
	offer.Conditions = []model.OfferCondition{
		{Type: model.ConditionMinSpend, Parameters: model.ConditionParameters{MinAmount: 100}},  // true: total 1400
		{Type: model.ConditionMinSpend, Parameters: model.ConditionParameters{MinAmount: 5000}}, // false
	}

	results := engine.Evaluate(evalRequest(offer))
	assert.Empty(t, results)
}

func TestEngine_Evaluate_EmptyConditionsMatchUniversally(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	offer := percentOffer("unconditional", 10)
	offer.Conditions = nil

	results := engine.Evaluate(evalRequest(offer))
	require.Len(t, results, 1)
	assert.Equal(t, "unconditional", results[0].Offer.ID)
}

func TestEngine_Evaluate_NoBenefitsExcluded(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	offer := model.Offer{ID: "no-benefit", Name: "no-benefit", IsActive: true}

	results := engine.Evaluate(evalRequest(offer))
	assert.Empty(t, results)
}

func TestEngine_Evaluate_ExclusiveSuppressesNonExclusive(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	// Cart total 1400: 50 EGP exclusive vs 80 EGP non-exclusive.
	exclusive := model.Offer{
		ID: "exclusive-50", Name: "exclusive-50", IsActive: true, IsExclusive: true,
		Benefits: []model.OfferBenefit{
			{Type: model.BenefitFixedAmountOff, Parameters: model.BenefitParameters{FixedAmount: 50}},
		},
	}
	nonExclusive := model.Offer{
		ID: "non-exclusive-80", Name: "non-exclusive-80", IsActive: true,
		Benefits: []model.OfferBenefit{
			{Type: model.BenefitFixedAmountOff, Parameters: model.BenefitParameters{FixedAmount: 80}},
		},
	}

	results := engine.Evaluate(evalRequest(exclusive, nonExclusive))

	require.Len(t, results, 1)
	assert.Equal(t, "exclusive-50", results[0].Offer.ID)
	assert.Equal(t, 50.0, results[0].DiscountAmount)
}

func TestEngine_Evaluate_BestExclusiveWins_FirstOnTie(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	mkExclusive := func(id string, amount float64, priority int) model.Offer {
		return model.Offer{
			ID: id, Name: id, IsActive: true, IsExclusive: true, Priority: priority,
			Benefits: []model.OfferBenefit{
				{Type: model.BenefitFixedAmountOff, Parameters: model.BenefitParameters{FixedAmount: amount}},
			},
		}
	}

	t.Run("highest discount wins", func(t *testing.T) {
		results := engine.Evaluate(evalRequest(
			mkExclusive("ex-30", 30, 9),
			mkExclusive("ex-90", 90, 1),
		))
		require.Len(t, results, 1)
		assert.Equal(t, "ex-90", results[0].Offer.ID)
	})

	t.Run("first found wins on equal discount", func(t *testing.T) {
		results := engine.Evaluate(evalRequest(
			mkExclusive("ex-a", 60, 5),
			mkExclusive("ex-b", 60, 2),
		))
		require.Len(t, results, 1)
		assert.Equal(t, "ex-a", results[0].Offer.ID)
	})
}

func TestEngine_Evaluate_NonExclusiveStacking(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	a := model.Offer{
		ID: "stack-20", Name: "stack-20", IsActive: true, Priority: 1,
		Benefits: []model.OfferBenefit{
			{Type: model.BenefitFixedAmountOff, Parameters: model.BenefitParameters{FixedAmount: 20}},
		},
	}
	b := model.Offer{
		ID: "stack-30", Name: "stack-30", IsActive: true, Priority: 5,
		Benefits: []model.OfferBenefit{
			{Type: model.BenefitFixedAmountOff, Parameters: model.BenefitParameters{FixedAmount: 30}},
		},
	}

	results := engine.Evaluate(evalRequest(a, b))

	require.Len(t, results, 2)
	// Priority order: higher first.
	assert.Equal(t, "stack-30", results[0].Offer.ID)
	assert.Equal(t, "stack-20", results[1].Offer.ID)
}

func TestEngine_Evaluate_GrantPackageSurfacesAtZeroDiscount(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	pkg := model.Offer{
		ID: "laser-package", Name: "Laser 6+2", IsActive: true, Type: model.OfferTypePackage,
		Benefits: []model.OfferBenefit{
			{Type: model.BenefitGrantPackage, Parameters: model.BenefitParameters{
				FixedPrice:          4000,
				PackageServiceID:    "SVC-LASER",
				PackageSessions:     8,
				PackageValidityDays: 365,
			}},
		},
	}

	results := engine.Evaluate(evalRequest(pkg))

	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].DiscountAmount)
	assert.Equal(t, model.CartTotal(testCart()), results[0].FinalPrice)
}

func TestEngine_Evaluate_EmptyCart(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	req := evalRequest(percentOffer("percent", 20))
	req.Cart = nil

	// Percent of an empty cart is zero, so the offer is filtered out.
	results := engine.Evaluate(req)
	assert.Empty(t, results)
}

func TestEngine_Evaluate_Idempotent(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	offers := []model.Offer{
		percentOffer("p10", 10),
		percentOffer("p20", 20),
	}
	offers[0].Priority = 3

	first := engine.Evaluate(evalRequest(offers...))
	second := engine.Evaluate(evalRequest(offers...))

	assert.Equal(t, first, second)
}

func TestEngine_Evaluate_NilRequest(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	assert.Nil(t, engine.Evaluate(nil))
}
