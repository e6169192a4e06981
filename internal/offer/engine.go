package offer

import (
	"time"

	"clinic-offers/internal/model"
)

// Evaluator defines the interface for offer evaluation.
type Evaluator interface {
	// Evaluate matches the offer catalogue against a cart and patient and
	// returns the applicable offers with computed discounts, already
	// filtered for validity and exclusivity.
	Evaluate(req *Request) []model.AppliedOffer
}

// Request is one evaluation snapshot. The engine is a pure function over
// it: identical requests produce identical results.
type Request struct {
	Cart    []model.CartItem
	Patient *model.Patient
	Offers  []model.Offer

	// Services is the clinic catalogue, used only to resolve category
	// targets of service_includes conditions. May be nil.
	Services []model.Service

	// Now is the evaluation timestamp. All date, time-of-day and
	// day-of-week conditions read it; the engine never touches the wall
	// clock itself.
	Now time.Time
}
