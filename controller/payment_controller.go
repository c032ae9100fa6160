package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/datatypes"

	"github.com/spirolink/SpiroLink-website-sub000/cache"
	"github.com/spirolink/SpiroLink-website-sub000/kafka"
	"github.com/spirolink/SpiroLink-website-sub000/model"
	"github.com/spirolink/SpiroLink-website-sub000/service"
	"github.com/spirolink/SpiroLink-website-sub000/store"
)

// Publisher is what the webhook handler needs from the Kafka producer.
type Publisher interface {
	PublishPaymentEvent(event kafka.PaymentEvent)
}

type PaymentController struct {
	Store         store.PaymentStore
	Checkout      service.CheckoutProvider
	Events        Publisher
	Cache         *cache.StatusCache
	WebhookSecret string
}

type createIntentRequest struct {
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	ServiceType string         `json:"serviceType"`
	Amount      float64        `json:"amount"`
	UserID      *uint          `json:"userId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func newPaymentID() string {
	return fmt.Sprintf("PAY-%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

// CreateIntent validates the request, creates the hosted checkout session and
// only then persists the pending row, so an upstream failure leaves no row
// behind.
func (pc *PaymentController) CreateIntent(c *fiber.Ctx) error {
	var body createIntentRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	payment := &model.Payment{
		PaymentID:   newPaymentID(),
		Email:       body.Email,
		Name:        body.Name,
		ServiceType: body.ServiceType,
		Amount:      body.Amount,
		Currency:    "usd",
		Status:      model.PaymentPending,
		UserID:      body.UserID,
	}
	if body.Metadata != nil {
		js, err := json.Marshal(body.Metadata)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid metadata"})
		}
		payment.Metadata = datatypes.JSON(js)
	}

	if err := store.ValidatePayment(payment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	sess, err := pc.Checkout.CreateCheckoutSession(service.CheckoutRequest{
		PaymentID:   payment.PaymentID,
		Email:       payment.Email,
		Name:        payment.Name,
		ServiceType: payment.ServiceType,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
	})
	if err != nil {
		log.Printf("ERROR: checkout session failed for %s: %v", payment.PaymentID, err)
		return c.Status(502).JSON(fiber.Map{"error": "payment provider unavailable"})
	}

	payment.StripeSessionID = sess.SessionID
	payment.StripeIntentID = sess.IntentID

	if err := pc.Store.Create(payment); err != nil {
		// The session exists upstream but nothing was persisted; it simply
		// expires unreferenced on the processor side.
		log.Printf("ERROR: failed to persist payment %s: %v", payment.PaymentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to record payment"})
	}

	log.Printf("INFO: checkout session %s created for %s", sess.SessionID, payment.PaymentID)

	return c.JSON(fiber.Map{
		"sessionId":   sess.SessionID,
		"paymentId":   payment.PaymentID,
		"checkoutUrl": sess.URL,
	})
}

// Status returns the payment row for the client-side poller. Reads go through
// the Redis cache; the webhook handler invalidates on every applied
// transition.
func (pc *PaymentController) Status(c *fiber.Ctx) error {
	paymentID := c.Params("paymentId")

	if pc.Cache != nil {
		if p, ok := pc.Cache.Get(c.Context(), paymentID); ok {
			return c.JSON(statusResponse(p))
		}
	}

	p, err := pc.Store.GetByPaymentID(paymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "payment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to look up payment"})
	}

	if pc.Cache != nil {
		pc.Cache.Set(c.Context(), p)
	}
	return c.JSON(statusResponse(p))
}

func statusResponse(p *model.Payment) fiber.Map {
	return fiber.Map{
		"payment_id":     p.PaymentID,
		"status":         p.Status,
		"amount":         p.Amount,
		"service_type":   p.ServiceType,
		"email":          p.Email,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
		"transaction_id": p.TransactionID,
	}
}

// Local mirrors of the Stripe payloads; only the fields the state machine
// reads, unmarshalled from event.Data.Raw.
type stripeSession struct {
	ID              string `json:"id"`
	PaymentIntent   string `json:"payment_intent"`
	ClientReference string `json:"client_reference_id"`
}

type stripeCharge struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
}

type stripeIntent struct {
	ID string `json:"id"`
}

// Webhook authenticates the event, maps its type to a status transition and
// applies it. Every recognized-but-inapplicable delivery (unknown row,
// duplicate, out of order) is logged and still ACKed so Stripe stops
// retrying.
func (pc *PaymentController) Webhook(c *fiber.Ctx) error {
	payload := c.Body()
	sig := c.Get("Stripe-Signature")
	if sig == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing Stripe-Signature header"})
	}

	event, err := webhook.ConstructEventWithOptions(payload, sig, pc.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Printf("WARN: webhook signature verification failed: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": "invalid signature"})
	}

	// Undecodable payloads of recognized types are ACKed like every other
	// skipped delivery; a 400 would only make Stripe redeliver the same bytes.
	switch event.Type {
	case "checkout.session.completed":
		var sess stripeSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("WARN: undecodable %s payload: %v", event.Type, err)
			return ack(c)
		}
		return pc.settleCheckout(c, sess)

	case "charge.succeeded":
		var ch stripeCharge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			log.Printf("WARN: undecodable %s payload: %v", event.Type, err)
			return ack(c)
		}
		return pc.transitionByIntent(c, ch.PaymentIntent, model.PaymentSucceeded, ch.ID)

	case "charge.failed":
		var ch stripeCharge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			log.Printf("WARN: undecodable %s payload: %v", event.Type, err)
			return ack(c)
		}
		return pc.transitionByIntent(c, ch.PaymentIntent, model.PaymentFailed, ch.ID)

	case "payment_intent.succeeded":
		var in stripeIntent
		if err := json.Unmarshal(event.Data.Raw, &in); err != nil {
			log.Printf("WARN: undecodable %s payload: %v", event.Type, err)
			return ack(c)
		}
		return pc.transitionByIntent(c, in.ID, model.PaymentProcessing, "")

	case "payment_intent.payment_failed":
		var in stripeIntent
		if err := json.Unmarshal(event.Data.Raw, &in); err != nil {
			log.Printf("WARN: undecodable %s payload: %v", event.Type, err)
			return ack(c)
		}
		return pc.transitionByIntent(c, in.ID, model.PaymentFailed, "")

	default:
		log.Printf("INFO: ignoring webhook event type %s", event.Type)
		return ack(c)
	}
}

func (pc *PaymentController) settleCheckout(c *fiber.Ctx, sess stripeSession) error {
	if sess.ID == "" && sess.ClientReference == "" {
		log.Printf("WARN: checkout event carries no session reference")
		return ack(c)
	}

	var p *model.Payment
	err := store.ErrNotFound
	if sess.ID != "" {
		p, err = pc.Store.GetBySessionID(sess.ID)
	}
	if errors.Is(err, store.ErrNotFound) && sess.ClientReference != "" {
		// The session id may not have been persisted yet; fall back to the
		// application id carried as client_reference_id.
		p, err = pc.Store.GetByPaymentID(sess.ClientReference)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN: no payment row for checkout session %s", sess.ID)
			return ack(c)
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to look up payment"})
	}

	return pc.apply(c, p, model.PaymentSucceeded, sess.PaymentIntent)
}

func (pc *PaymentController) transitionByIntent(c *fiber.Ctx, intentID string, target model.PaymentStatus, transactionID string) error {
	// Rows are created before Stripe reports their intent, so an empty intent
	// reference would match any such row. Treat it as no matching row.
	if intentID == "" {
		log.Printf("WARN: %s event carries no payment intent reference", target)
		return ack(c)
	}

	p, err := pc.Store.GetByIntentID(intentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN: no payment row for intent %s", intentID)
			return ack(c)
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to look up payment"})
	}

	return pc.apply(c, p, target, transactionID)
}

func (pc *PaymentController) apply(c *fiber.Ctx, p *model.Payment, target model.PaymentStatus, transactionID string) error {
	updated, applied, err := pc.Store.UpdateStatus(p.PaymentID, target, transactionID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update payment"})
	}

	if !applied {
		log.Printf("INFO: ignoring %s transition for %s (status %s)", target, p.PaymentID, updated.Status)
		return ack(c)
	}

	log.Printf("INFO: payment %s -> %s", p.PaymentID, target)

	if pc.Cache != nil {
		pc.Cache.Invalidate(c.Context(), p.PaymentID)
	}

	if pc.Events != nil && target.Terminal() {
		eventType := kafka.TopicPaymentSucceeded
		if target == model.PaymentFailed {
			eventType = kafka.TopicPaymentFailed
		}
		pc.Events.PublishPaymentEvent(kafka.PaymentEvent{
			EventType: eventType,
			Data: kafka.PaymentEventData{
				PaymentID:     updated.PaymentID,
				Email:         updated.Email,
				Name:          updated.Name,
				ServiceType:   updated.ServiceType,
				Amount:        updated.Amount,
				Currency:      updated.Currency,
				TransactionID: updated.TransactionID,
			},
		})
	}

	return ack(c)
}

func ack(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"received": true})
}
