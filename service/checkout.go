package service

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type CheckoutRequest struct {
	PaymentID   string
	Email       string
	Name        string
	ServiceType string
	Amount      float64 // major units
	Currency    string
}

type CheckoutSession struct {
	SessionID string
	IntentID  string
	URL       string
}

// CheckoutProvider creates a hosted checkout session with the payment
// processor. Swappable so tests run without Stripe.
type CheckoutProvider interface {
	CreateCheckoutSession(req CheckoutRequest) (*CheckoutSession, error)
}

type StripeCheckout struct {
	SuccessURL string
	CancelURL  string
}

func NewStripeCheckout(apiKey, frontendURL string) *StripeCheckout {
	stripe.Key = apiKey
	return &StripeCheckout{
		SuccessURL: frontendURL + "/payment/success?payment_id={CHECKOUT_SESSION_ID}",
		CancelURL:  frontendURL + "/payment/cancelled",
	}
}

// CreateCheckoutSession creates a payment-mode session. The application
// payment id rides along as client_reference_id and intent metadata so webhook
// events can be correlated even before the session id is persisted.
func (s *StripeCheckout) CreateCheckoutSession(req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.PaymentID),
		CustomerEmail:     stripe.String(req.Email),
		SuccessURL:        stripe.String(s.SuccessURL),
		CancelURL:         stripe.String(s.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(int64(math.Round(req.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ServiceType),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{"payment_id": req.PaymentID},
		},
	}
	params.AddMetadata("payment_id", req.PaymentID)
	params.AddMetadata("customer_name", req.Name)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	out := &CheckoutSession{SessionID: sess.ID, URL: sess.URL}
	if sess.PaymentIntent != nil {
		out.IntentID = sess.PaymentIntent.ID
	}
	return out, nil
}
