package queue

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Consumer reads dispatch messages as part of a consumer group. Delivery is
// at-least-once: a message whose processing outlives the group session may be
// redelivered to another member.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 10e6,
		}),
	}
}

// Read blocks until the next message or context cancellation.
func (c *Consumer) Read(ctx context.Context) (kafka.Message, error) {
	return c.reader.ReadMessage(ctx)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
