package kafka

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spirolink/SpiroLink-website-sub000/service"
)

// PaymentSucceededHandler turns payment.succeeded events into receipt emails.
// A duplicate event means at most a duplicate email; send failures are logged
// and dropped, never retried here.
func PaymentSucceededHandler(mailer service.Mailer) func([]byte) {
	return func(raw []byte) {
		var event PaymentEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("Invalid payment.succeeded payload: %v", err)
			return
		}

		d := event.Data
		log.Printf("payment.succeeded received for %s", d.PaymentID)

		subject := "Your NodalWire payment was successful"
		text := fmt.Sprintf(
			"Hi %s,\n\nWe received your payment of %.2f %s for %s.\nReference: %s\n\nThe NodalWire team",
			d.Name, d.Amount, d.Currency, d.ServiceType, d.PaymentID,
		)
		html := fmt.Sprintf(
			"<p>Hi %s,</p><p>We received your payment of <b>%.2f %s</b> for %s.</p><p>Reference: %s</p><p>The NodalWire team</p>",
			d.Name, d.Amount, d.Currency, d.ServiceType, d.PaymentID,
		)

		if err := mailer.Send(d.Email, subject, html, text); err != nil {
			log.Printf("Failed to send receipt for %s: %v", d.PaymentID, err)
			return
		}

		log.Printf("Receipt sent to %s for %s", d.Email, d.PaymentID)
	}
}
