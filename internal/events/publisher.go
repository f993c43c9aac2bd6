// Package events publishes every live-delivery event to Kafka, best-effort.
// The local ws registry only reaches channels held by this process; the topic
// is the feed a cross-instance bridge or offline-push worker would consume.
// Losing an event here loses nothing durable.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

type Publisher interface {
	Publish(ctx context.Context, key string, evt ws.Event) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &kafkaPublisher{writer: w}
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, evt ws.Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

// NopPublisher is used when Kafka is disabled in config.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, ws.Event) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
