package payment

import (
	"context"

	ordersvc "bakery-orders/internal/service/order"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Checkout sessions are created in payment mode with the currency the shop
// charges in.
const currency = "eur"

// StripeCheckout creates Stripe Checkout sessions for priced orders. It
// satisfies the engine's CheckoutProvider port.
type StripeCheckout struct {
	api        *client.API
	successURL string
	cancelURL  string
}

func NewStripeCheckout(secretKey, successURL, cancelURL string) *StripeCheckout {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCheckout{
		api:        api,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (s *StripeCheckout) CreateSession(ctx context.Context, lines []ordersvc.CheckoutLine) (string, error) {
	params := sessionParams(lines, s.successURL, s.cancelURL)
	params.Params = stripe.Params{Context: ctx}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func sessionParams(lines []ordersvc.CheckoutLine, successURL, cancelURL string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	for _, l := range lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(l.UnitPriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(l.Name),
				},
			},
			Quantity: stripe.Int64(int64(l.Quantity)),
		})
	}
	return params
}
