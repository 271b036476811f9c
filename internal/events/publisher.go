package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
)

// EventType represents the type of POS event.
type EventType string

const (
	EventTypeCheckoutCompleted EventType = "pos.checkout_completed"
	EventTypeCartCleared       EventType = "pos.cart_cleared"
)

// POSEvent is a terminal event on the wire. Events are advisory: the
// sale is settled whether or not the event made it out.
type POSEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// KafkaPublisher publishes POS events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	logger *logging.Logger
}

// NewKafkaPublisher creates a Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.POSTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.POSTopic,
		logger: logger,
	}
}

// PublishCheckoutCompleted announces a settled checkout.
func (p *KafkaPublisher) PublishCheckoutCompleted(ctx context.Context, transactionID string, req *models.CheckoutRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	event := p.createEvent(ctx, EventTypeCheckoutCompleted, transactionID, data)
	return p.publish(ctx, event)
}

// PublishCartCleared announces an explicit cart clear.
func (p *KafkaPublisher) PublishCartCleared(ctx context.Context, reason string) error {
	data, err := json.Marshal(struct {
		Reason string `json:"reason"`
	}{Reason: reason})
	if err != nil {
		return err
	}

	event := p.createEvent(ctx, EventTypeCartCleared, "", data)
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) createEvent(ctx context.Context, eventType EventType, transactionID string, data []byte) *POSEvent {
	return &POSEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		TransactionID: transactionID,
		Data:          data,
		Timestamp:     time.Now(),
		CorrelationID: middleware.FromContext(ctx),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *POSEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.ID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": string(event.Type),
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Debug("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": string(event.Type),
	})
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// MockPublisher is a mock implementation for testing.
type MockPublisher struct {
	mu     sync.Mutex
	Events []*POSEvent
}

// NewMockPublisher creates a publisher that records events in memory.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishCheckoutCompleted(ctx context.Context, transactionID string, req *models.CheckoutRequest) error {
	m.record(&POSEvent{Type: EventTypeCheckoutCompleted, TransactionID: transactionID})
	return nil
}

func (m *MockPublisher) PublishCartCleared(ctx context.Context, reason string) error {
	m.record(&POSEvent{Type: EventTypeCartCleared})
	return nil
}

func (m *MockPublisher) record(e *POSEvent) {
	m.mu.Lock()
	m.Events = append(m.Events, e)
	m.mu.Unlock()
}

// Published returns the recorded events.
func (m *MockPublisher) Published() []*POSEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*POSEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
