package queue

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/lumaensino/notify/internal/logger"
	"github.com/lumaensino/notify/internal/metrics"
)

// Producer publishes dispatch messages onto the queue topic.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 5 * time.Millisecond,
		},
	}
}

// Publish writes one message. The key and headers carry routing metadata
// (notification_id, message_id) alongside the raw request body.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:     key,
		Value:   value,
		Headers: headers,
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{"topic": p.writer.Topic}).
			Errorf("failed to write message: %v", err)
		metrics.IncEnqueue(false)
		return err
	}
	metrics.IncEnqueue(true)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
