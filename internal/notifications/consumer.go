package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// Handler processes a reservation lifecycle message
type Handler interface {
	HandleReservationMessage(ctx context.Context, msg *ReservationMessage) error
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, msg *ReservationMessage) error

func (f HandlerFunc) HandleReservationMessage(ctx context.Context, msg *ReservationMessage) error {
	return f(ctx, msg)
}

// LogHandler just logs the lifecycle messages it receives. It is the
// default handler when no downstream delivery channel is wired.
func LogHandler() Handler {
	return HandlerFunc(func(ctx context.Context, msg *ReservationMessage) error {
		log.Printf("📧 Reservation %s: %s (customer %s, event %s)", msg.Type, msg.Code, msg.CustomerID, msg.EventID)
		return nil
	})
}

// ConsumerConfig contains configuration for the Kafka consumer group
type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	MaxRetries           int
	RetryBackoffDuration time.Duration
	OffsetOldest         bool
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "teatro-reservation-workers",
		Topics:               []string{"reservation-events"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
		OffsetOldest:         false,
	}
}

// KafkaConsumer consumes reservation lifecycle messages from Kafka
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	handler       Handler
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewKafkaConsumer creates a new Kafka consumer group for reservation messages
func NewKafkaConsumer(config *ConsumerConfig, handler Handler) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		handler:       handler,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// StartConsumers starts the given number of consumer workers. Workers run
// until Stop is called or the given context is cancelled, whichever comes
// first.
func (kc *KafkaConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	log.Printf("📥 Starting %d reservation consumer workers for topics: %v", numWorkers, kc.config.Topics)

	go kc.handleErrors()

	go func() {
		select {
		case <-ctx.Done():
			kc.cancel()
		case <-kc.ctx.Done():
		}
	}()

	for i := 0; i < numWorkers; i++ {
		kc.wg.Add(1)
		go func(workerID int) {
			defer kc.wg.Done()
			kc.runWorker(kc.ctx, workerID)
		}(i)
	}

	return nil
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		workerID: workerID,
		handler:  kc.handler,
		config:   kc.config,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("📥 Worker %d shutting down", workerID)
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) || ctx.Err() != nil {
					log.Printf("📥 Worker %d shutting down", workerID)
					return
				}
				log.Printf("📥 Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

// Stop cancels the worker context, waits for the workers to drain, then
// closes the consumer group.
func (kc *KafkaConsumer) Stop() error {
	log.Println("📥 Stopping reservation consumer...")
	kc.cancel()
	kc.wg.Wait()

	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}

	log.Println("📥 Reservation consumer stopped")
	return nil
}

type consumerGroupHandler struct {
	workerID int
	handler  Handler
	config   *ConsumerConfig
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: Consumer group session started", h.workerID)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: Consumer group session ended", h.workerID)
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("📥 Worker %d: Error processing message: %v", h.workerID, err)
			} else {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	msg, err := FromJSON(message.Value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal reservation message: %w", err)
	}

	return h.executeWithRetry(ctx, msg)
}

func (h *consumerGroupHandler) executeWithRetry(ctx context.Context, msg *ReservationMessage) error {
	maxRetries := h.config.MaxRetries
	backoff := h.config.RetryBackoffDuration

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.handler.HandleReservationMessage(ctx, msg)
		if err == nil {
			return nil
		}

		if attempt == maxRetries {
			log.Printf("📥 Worker %d: Failed to process message after %d attempts: %v", h.workerID, maxRetries, err)
			return err
		}

		// Exponential backoff
		delay := backoff * time.Duration(1<<attempt)

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
