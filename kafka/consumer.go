package kafka

import (
	"context"
	"log"
	"time"

	"github.com/IBM/sarama"
)

type Consumer struct {
	consumer sarama.Consumer
}

func NewConsumer(broker string) *Consumer {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true

	var client sarama.Consumer
	var err error

	for i := 1; i <= 10; i++ {
		client, err = sarama.NewConsumer([]string{broker}, config)
		if err == nil {
			log.Println("Kafka consumer initialized")
			return &Consumer{consumer: client}
		}

		log.Printf("Waiting for Kafka consumer... (%d/10) Error: %v", i, err)
		time.Sleep(5 * time.Second)
	}

	log.Fatalf("Failed to start Kafka consumer: %v", err)
	return nil
}

// Consume reads a topic from its newest offset and hands each message to
// handler on a background goroutine. The goroutine closes the partition
// consumer and returns when ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context, topic string, handler func([]byte)) {
	pc, err := c.consumer.ConsumePartition(topic, 0, sarama.OffsetNewest)
	if err != nil {
		log.Fatalf("Failed to consume topic %s: %v", topic, err)
	}

	log.Printf("Listening on topic %s ...", topic)

	go func() {
		defer pc.AsyncClose()
		for {
			select {
			case msg := <-pc.Messages():
				handler(msg.Value)

			case err := <-pc.Errors():
				log.Printf("Kafka consumer error: %v", err)

			case <-ctx.Done():
				return
			}
		}
	}()
}
