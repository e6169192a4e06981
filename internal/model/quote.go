package model

// QuoteRequest asks for offer evaluation over a prospective cart.
type QuoteRequest struct {
	PatientID string             `json:"patientId"`
	Items     []QuoteItemRequest `json:"items"`
}

// QuoteItemRequest is a single cart line by service reference; the
// server prices it from the catalogue.
type QuoteItemRequest struct {
	ServiceID string `json:"serviceId"`
	Quantity  int    `json:"quantity"`
}

// QuoteResponse carries the priced cart and the offers that apply to it.
type QuoteResponse struct {
	PatientID string         `json:"patientId"`
	Cart      []CartItem     `json:"cart"`
	CartTotal float64        `json:"cartTotal"`
	Offers    []AppliedOffer `json:"offers"`
}

// RedeemRequest records the application of an offer on confirm.
type RedeemRequest struct {
	PatientID      string  `json:"patientId"`
	OfferID        string  `json:"offerId"`
	DiscountAmount float64 `json:"discountAmount"`
}

// TopUpRequest adds cash to a patient wallet.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
}

// PackagePurchaseRequest starts the purchase of a grant_package offer.
type PackagePurchaseRequest struct {
	PatientID string `json:"patientId"`
	OfferID   string `json:"offerId"`
}

// CreditRedeemRequest consumes units of a service credit.
type CreditRedeemRequest struct {
	ServiceID string `json:"serviceId"`
	Units     int    `json:"units"`
}
