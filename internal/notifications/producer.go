package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// ProducerConfig contains configuration for the Kafka reservation producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "reservation-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaProducer publishes reservation lifecycle messages to Kafka
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaProducer creates a new Kafka reservation producer
func NewKafkaProducer(config *ProducerConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps per-customer ordering
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka reservation producer created successfully")
	return &KafkaProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishReservationMessage publishes a single lifecycle message to Kafka
func (kp *KafkaProducer) PublishReservationMessage(ctx context.Context, msg ReservationMessage) error {
	messageBytes, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal reservation message: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.Topic,
		Key:       sarama.StringEncoder(msg.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   kp.createHeaders(&msg),
		Timestamp: msg.Timestamp,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send reservation message to Kafka: %w", err)
	}

	log.Printf("📤 Reservation message published - Topic: %s, Partition: %d, Offset: %d, Type: %s, Code: %s",
		kp.config.Topic, partition, offset, msg.Type, msg.Code)

	return nil
}

func (kp *KafkaProducer) createHeaders(msg *ReservationMessage) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("message_type"), Value: []byte(msg.Type)},
		{Key: []byte("reservation_id"), Value: []byte(msg.ReservationID)},
		{Key: []byte("reservation_code"), Value: []byte(msg.Code)},
		{Key: []byte("customer_id"), Value: []byte(msg.CustomerID)},
		{Key: []byte("event_id"), Value: []byte(msg.EventID)},
		{Key: []byte("producer"), Value: []byte("teatro-reservations")},
		{Key: []byte("created_at"), Value: []byte(msg.Timestamp.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (kp *KafkaProducer) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka reservation producer closed")
	}
	return nil
}

// HealthCheck validates the producer wiring
func (kp *KafkaProducer) HealthCheck(ctx context.Context) error {
	if kp.producer == nil {
		return fmt.Errorf("health check failed - producer is nil")
	}
	if kp.config.Topic == "" {
		return fmt.Errorf("health check failed - topic not configured")
	}
	return nil
}

// NoopPublisher is used when messaging is disabled by configuration
type NoopPublisher struct{}

func (NoopPublisher) PublishReservationMessage(ctx context.Context, msg ReservationMessage) error {
	return nil
}
