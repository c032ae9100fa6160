package kafka

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

const (
	TopicPaymentSucceeded = "payment.succeeded"
	TopicPaymentFailed    = "payment.failed"
)

type PaymentEvent struct {
	EventType string           `json:"event_type"`
	Data      PaymentEventData `json:"data"`
}

type PaymentEventData struct {
	PaymentID     string  `json:"payment_id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	ServiceType   string  `json:"service_type"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transaction_id,omitempty"`
}

type Producer struct {
	producer sarama.SyncProducer
}

func NewProducer(broker string) *Producer {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	var producer sarama.SyncProducer
	var err error

	for i := 1; i <= 10; i++ {
		producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.Println("Kafka producer initialized")
			return &Producer{producer: producer}
		}

		log.Printf("Waiting for Kafka... (%d/10) Error: %v", i, err)
		time.Sleep(5 * time.Second)
	}

	log.Fatalf("Failed to start Kafka producer after retries: %v", err)
	return nil
}

// PublishPaymentEvent publishes to the topic named by the event type. Errors
// are logged and swallowed: notification delivery is best-effort and must
// never fail the webhook ACK that triggered it.
func (p *Producer) PublishPaymentEvent(event PaymentEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event.EventType, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: event.EventType,
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("Failed to send %s Kafka message: %v", event.EventType, err)
		return
	}

	log.Printf("Published %s event for %s", event.EventType, event.Data.PaymentID)
}
