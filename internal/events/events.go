package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"medcamp/internal/model"
)

// Event types published on the camp topic.
const (
	TypeCampSubmitted     = "camp.submitted"
	TypeCampStatusChanged = "camp.status_changed"
)

// Event describes one change to a camp submission.
type Event struct {
	Type           string           `json:"type"`
	CampID         uuid.UUID        `json:"camp_id"`
	UserID         uuid.UUID        `json:"user_id"`
	Status         model.CampStatus `json:"status"`
	PreviousStatus model.CampStatus `json:"previous_status,omitempty"`
	ActorID        uuid.UUID        `json:"actor_id"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

// Publisher delivers camp events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New returns a Kafka publisher, or a no-op publisher when no brokers are configured.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

// KafkaPublisher writes events keyed by camp id so a camp's events stay ordered in one partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a synchronous producer for topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

// Publish sends one event.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := Message(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Message encodes event as a Kafka message.
func Message(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.CampID.String()),
		Value: value,
	}, nil
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
