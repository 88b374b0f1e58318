package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// Validation rejections returned by the order pricing engine. All are
	// recoverable and user-facing; none leaks storage detail.
	ErrEmptyCart           = errors.New("cart is empty")
	ErrIncompatibleProduct = errors.New("products incompatible with the selected mode")
	ErrAddressRequired     = errors.New("address is required for delivery")
	ErrInvalidProduct      = errors.New("invalid product")

	// ErrPaymentSession wraps a failure from the payment collaborator. Only
	// possible when checkout integration is enabled.
	ErrPaymentSession = errors.New("failed to create payment session")
)
