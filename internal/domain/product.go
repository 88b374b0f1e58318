package domain

// Product is a fixed catalog entry. The catalog is code-defined and reseeded
// at startup; products are never created or edited through the API.
type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// The two products the bakery sells. Each is permanently bound to one
// fulfillment mode.
const (
	PickupProductID   int64 = 1
	DeliveryProductID int64 = 2
)
