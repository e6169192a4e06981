package model

// CartItem is one priced service line in the cart under evaluation.
type CartItem struct {
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"` // unit price
	Quantity    int     `json:"quantity"`
}

// CartTotal returns the sum of price times quantity over all items.
func CartTotal(cart []CartItem) float64 {
	var total float64
	for _, item := range cart {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// AppliedOffer is the engine's output for one matched offer.
type AppliedOffer struct {
	Offer          Offer   `json:"offer"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalPrice     float64 `json:"finalPrice"`
	Description    string  `json:"description"`
}
