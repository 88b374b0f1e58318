package domain

import (
	"fmt"
	"time"
)

// FulfillmentMode selects how an order reaches the customer. It determines
// the single product id that is legal in the cart and whether an address and
// delivery date are required.
type FulfillmentMode string

const (
	ModePickup   FulfillmentMode = "pickup"
	ModeDelivery FulfillmentMode = "delivery"
)

// AllowedProductID returns the only product id that may appear in a cart
// submitted under this mode.
func (m FulfillmentMode) AllowedProductID() int64 {
	if m == ModeDelivery {
		return DeliveryProductID
	}
	return PickupProductID
}

// ParseFulfillmentMode validates a raw mode string.
func ParseFulfillmentMode(s string) (FulfillmentMode, error) {
	switch FulfillmentMode(s) {
	case ModePickup, ModeDelivery:
		return FulfillmentMode(s), nil
	}
	return "", fmt.Errorf("unknown fulfillment mode %q", s)
}

// OrderStatus is the two-state admin-controlled order lifecycle. There is no
// terminal state; either value may be set any number of times.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusDone    OrderStatus = "done"
)

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusDone:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Order is a finalized, priced order as produced by the pricing engine and
// stored with its items. Customer fields are a snapshot taken at order time;
// item unit prices are the catalog prices at validation time, never
// client-supplied.
type Order struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress,omitempty"`
	Mode            FulfillmentMode `json:"mode"`
	TotalCents      int64           `json:"totalCents"`
	DeliveryDate    *time.Time      `json:"-"`
	CheckoutURL     *string         `json:"checkoutUrl,omitempty"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items,omitempty"`
}

// OrderItem is one priced cart line of a stored order.
type OrderItem struct {
	ProductID      int64 `json:"productId"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unitPriceCents"`
}

// DeliveryDateString renders the delivery date as an ISO-8601 calendar date,
// or "" for pickup orders.
func (o Order) DeliveryDateString() string {
	if o.DeliveryDate == nil {
		return ""
	}
	return o.DeliveryDate.Format("2006-01-02")
}
