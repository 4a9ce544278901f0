package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// EventTypePurchaseConfirmed is written to the event-type header
const EventTypePurchaseConfirmed = "PurchaseConfirmed"

// KafkaConfig configures the Kafka publisher
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	RequiredAcks string
	Retries      int
}

// KafkaPublisher publishes purchase events through a sarama SyncProducer.
// Messages are keyed by sale id so one sale's events stay ordered.
type KafkaPublisher struct {
	producer     sarama.SyncProducer
	topic        string
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.PurchaseEventPublisher = (*KafkaPublisher)(nil)

// NewSaramaConfig builds the producer configuration
func NewSaramaConfig(cfg KafkaConfig) *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = cfg.Retries
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	switch cfg.RequiredAcks {
	case "0":
		config.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		config.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		config.Producer.RequiredAcks = sarama.WaitForAll
	}

	// Idempotent producers require acks from all replicas
	if config.Producer.RequiredAcks != sarama.WaitForAll {
		config.Producer.Idempotent = false
	}

	return config
}

// NewKafkaPublisher connects a SyncProducer to the configured brokers
func NewKafkaPublisher(
	cfg KafkaConfig,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return NewKafkaPublisherWithProducer(producer, cfg.Topic, idGenerator, timeProvider, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(
	producer sarama.SyncProducer,
	topic string,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *KafkaPublisher {
	return &KafkaPublisher{
		producer:     producer,
		topic:        topic,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// PublishPurchaseConfirmed sends the event and waits for the broker ack
func (p *KafkaPublisher) PublishPurchaseConfirmed(ctx context.Context, event entity.PurchaseConfirmed) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.SaleID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(EventTypePurchaseConfirmed)},
			{Key: []byte("event-id"), Value: []byte(p.idGenerator.NewID())},
			{Key: []byte("timestamp"), Value: []byte(p.timeProvider.Now().UTC().Format(time.RFC3339))},
		},
	}
	if event.CorrelationID != "" {
		message.Headers = append(message.Headers, sarama.RecordHeader{
			Key:   []byte("correlation-id"),
			Value: []byte(event.CorrelationID),
		})
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", EventTypePurchaseConfirmed, err)
	}

	p.logger.Debug("Event published to Kafka", map[string]any{
		"topic":          p.topic,
		"partition":      partition,
		"offset":         offset,
		"event_type":     EventTypePurchaseConfirmed,
		"purchase_id":    event.PurchaseID,
		"correlation_id": event.CorrelationID,
	})
	return nil
}

// Close closes the Kafka producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
