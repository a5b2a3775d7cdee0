package ticketcategories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

type ChangeType string

const (
	ChangeCreated ChangeType = "ticket_category.created"
	ChangeUpdated ChangeType = "ticket_category.updated"
	ChangeDeleted ChangeType = "ticket_category.deleted"
)

// ChangeEvent describes a ticket category mutation for downstream consumers
// such as the checkout and search services.
type ChangeEvent struct {
	ID               uuid.UUID  `json:"id"`
	Type             ChangeType `json:"type"`
	EventID          uuid.UUID  `json:"event_id"`
	TicketCategoryID uuid.UUID  `json:"ticket_category_id"`
	Name             string     `json:"name"`
	Quota            int        `json:"quota"`
	Price            float64    `json:"price"`
	SalesStart       time.Time  `json:"sales_start"`
	SalesEnd         time.Time  `json:"sales_end"`
	OccurredAt       time.Time  `json:"occurred_at"`
}

func NewChangeEvent(t ChangeType, tc *TicketCategory, at time.Time) *ChangeEvent {
	return &ChangeEvent{
		ID:               uuid.New(),
		Type:             t,
		EventID:          tc.EventID,
		TicketCategoryID: tc.ID,
		Name:             tc.Name,
		Quota:            tc.Quota,
		Price:            tc.Price,
		SalesStart:       tc.SalesStart,
		SalesEnd:         tc.SalesEnd,
		OccurredAt:       at,
	}
}

// ChangePublisher announces ticket category changes.
type ChangePublisher interface {
	Publish(ctx context.Context, change *ChangeEvent) error
	Close() error
}

type KafkaPublisherConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	RetryMax     int
	TimeoutMs    int
	RequiredAcks sarama.RequiredAcks
	Compression  sarama.CompressionCodec
}

func DefaultKafkaPublisherConfig() *KafkaPublisherConfig {
	return &KafkaPublisherConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "ticket-category-changes",
		ClientID:     "tiketin-api",
		RetryMax:     3,
		TimeoutMs:    10000,
		RequiredAcks: sarama.WaitForAll,
		Compression:  sarama.CompressionSnappy,
	}
}

// KafkaChangePublisher writes change events keyed by event id so that all
// changes of one event land on the same partition in order.
type KafkaChangePublisher struct {
	producer sarama.SyncProducer
	config   *KafkaPublisherConfig
}

func NewKafkaChangePublisher(config *KafkaPublisherConfig) (*KafkaChangePublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = config.ClientID
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.Compression
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka ticket category publisher created (topic: %s)", config.Topic)
	return NewKafkaChangePublisherWithProducer(producer, config), nil
}

func NewKafkaChangePublisherWithProducer(producer sarama.SyncProducer, config *KafkaPublisherConfig) *KafkaChangePublisher {
	return &KafkaChangePublisher{producer: producer, config: config}
}

func (p *KafkaChangePublisher) Publish(ctx context.Context, change *ChangeEvent) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket category change: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(change.EventID.String()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   p.headers(change),
		Timestamp: change.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send ticket category change to Kafka: %w", err)
	}

	log.Printf("📤 Ticket category change published - Topic: %s, Partition: %d, Offset: %d, Type: %s, Category: %s",
		p.config.Topic, partition, offset, change.Type, change.TicketCategoryID)
	return nil
}

func (p *KafkaChangePublisher) headers(change *ChangeEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("change_type"), Value: []byte(change.Type)},
		{Key: []byte("event_id"), Value: []byte(change.EventID.String())},
		{Key: []byte("ticket_category_id"), Value: []byte(change.TicketCategoryID.String())},
		{Key: []byte("producer"), Value: []byte(p.config.ClientID)},
		{Key: []byte("version"), Value: []byte("1.0")},
	}
}

func (p *KafkaChangePublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	log.Printf("📤 Kafka ticket category publisher closed")
	return nil
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *ChangeEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
