package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

const referenceMetadataKey = "booking_reference"

// Gateway abstracts the payment provider so the confirm flow can be tested
// without hitting Stripe.
type Gateway interface {
	// CreateCheckout opens a hosted checkout for the reservation amount and
	// returns the redirect URL. The booking reference travels in the session
	// metadata and comes back on confirmation.
	CreateCheckout(ctx context.Context, reference, serviceName, customerEmail string, amountCents int64) (string, error)
	// ConfirmSession looks up a checkout session and reports whether it was
	// paid, along with the booking reference it carries.
	ConfirmSession(ctx context.Context, sessionID string) (string, bool, error)
}

type stripeGateway struct {
	currency   string
	successURL string
	cancelURL  string
}

func NewStripeGateway(apiKey, currency, successURL, cancelURL string) Gateway {
	stripe.Key = apiKey
	return &stripeGateway{currency: currency, successURL: successURL, cancelURL: cancelURL}
}

func (g *stripeGateway) CreateCheckout(ctx context.Context, reference, serviceName, customerEmail string, amountCents int64) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(g.successURL),
		CancelURL:     stripe.String(g.cancelURL),
		CustomerEmail: stripe.String(customerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.currency),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(serviceName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(referenceMetadataKey, reference)

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}

	return sess.URL, nil
}

func (g *stripeGateway) ConfirmSession(ctx context.Context, sessionID string) (string, bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return "", false, err
	}

	reference := sess.Metadata[referenceMetadataKey]
	paid := sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid

	return reference, paid, nil
}
