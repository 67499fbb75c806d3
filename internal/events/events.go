package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/dialogamente/backend/internal/models"
	"github.com/google/uuid"
)

const (
	EventTestCompleted = "test.completed"
	source             = "dialogamente-backend"
	version            = "1"
)

// TestCompleted is published after a quiz result has been persisted.
type TestCompleted struct {
	ID         string         `json:"id"`
	UserID     int64          `json:"user_id"`
	ResultID   string         `json:"result_id"`
	Dominant   models.Profile `json:"dominant_profile"`
	TotalScore int            `json:"total_score"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewTestCompleted(result *models.TestResult) TestCompleted {
	return TestCompleted{
		ID:         uuid.NewString(),
		UserID:     result.UserID,
		ResultID:   result.ID,
		Dominant:   result.Dominant,
		TotalScore: result.TotalScore,
		OccurredAt: result.CreatedAt,
	}
}

// Publisher emits domain events.
type Publisher interface {
	PublishTestCompleted(ctx context.Context, event TestCompleted) error
}

type Handler func(ctx context.Context, event TestCompleted) error

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = 500 * time.Millisecond
)

type Config struct {
	KafkaBrokers  []string
	Topic         string
	ConsumerGroup string
	Debug         bool

	// MaxRetries bounds redelivery of a failing event before it is moved
	// to the poison topic.
	MaxRetries    int
	RetryInterval time.Duration
}

// Bus publishes and consumes events over watermill. Without brokers it
// runs in-process on a go channel.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	inProcess  bool
	topic      string
	logger     watermill.LoggerAdapter
	maxRetries int
	retryWait  time.Duration

	readyOnce sync.Once
	ready     chan struct{}
}

func NewBus(cfg Config) (*Bus, error) {
	logger := watermill.NewStdLogger(cfg.Debug, false)
	bus := &Bus{
		topic:      cfg.Topic,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryInterval,
		ready:      make(chan struct{}),
	}
	if bus.topic == "" {
		bus.topic = EventTestCompleted
	}
	if bus.maxRetries <= 0 {
		bus.maxRetries = defaultMaxRetries
	}
	if bus.retryWait <= 0 {
		bus.retryWait = defaultRetryInterval
	}

	if len(cfg.KafkaBrokers) == 0 {
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
		log.Printf("[events] using in-process bus on topic %s", bus.topic)
		bus.publisher, bus.subscriber, bus.inProcess = ch, ch, true
		return bus, nil
	}

	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}
	sub, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:       cfg.KafkaBrokers,
		Unmarshaler:   kafka.DefaultMarshaler{},
		ConsumerGroup: cfg.ConsumerGroup,
	}, logger)
	if err != nil {
		pub.Close()
		return nil, fmt.Errorf("create kafka subscriber: %w", err)
	}
	log.Printf("[events] using kafka %v on topic %s", cfg.KafkaBrokers, bus.topic)
	bus.publisher, bus.subscriber = pub, sub
	return bus, nil
}

// PoisonTopic receives events whose handler kept failing.
func (b *Bus) PoisonTopic() string {
	return b.topic + ".poison"
}

// Ready is closed once a consumer is subscribed.
func (b *Bus) Ready() <-chan struct{} {
	return b.ready
}

func (b *Bus) PublishTestCompleted(ctx context.Context, event TestCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", EventTestCompleted, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", EventTestCompleted)
	msg.Metadata.Set("source", source)
	msg.Metadata.Set("version", version)
	msg.Metadata.Set("timestamp", event.OccurredAt.Format(time.RFC3339))

	if err := b.publisher.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", EventTestCompleted, err)
	}
	return nil
}

// Consume delivers events to h until ctx is cancelled. A failing event is
// retried with backoff and then moved to the poison topic; undecodable
// ones are dropped.
func (b *Bus) Consume(ctx context.Context, h Handler) error {
	router, err := message.NewRouter(message.RouterConfig{}, b.logger)
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}
	poison, err := middleware.PoisonQueue(b.publisher, b.PoisonTopic())
	if err != nil {
		return fmt.Errorf("create poison queue: %w", err)
	}
	router.AddMiddleware(
		poison,
		middleware.Retry{
			MaxRetries:      b.maxRetries,
			InitialInterval: b.retryWait,
			MaxInterval:     10 * b.retryWait,
			Multiplier:      2,
			Logger:          b.logger,
		}.Middleware,
		middleware.Recoverer,
	)

	router.AddConsumerHandler("gamification."+b.topic, b.topic, b.subscriber,
		func(msg *message.Message) error {
			var event TestCompleted
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.Printf("[events] dropping malformed message %s: %v", msg.UUID, err)
				return nil
			}
			if err := h(msg.Context(), event); err != nil {
				log.Printf("[events] handler failed for %s: %v", event.ID, err)
				return err
			}
			return nil
		})

	go func() {
		select {
		case <-router.Running():
			b.readyOnce.Do(func() { close(b.ready) })
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("run router: %w", err)
	}
	return nil
}

func (b *Bus) Close() error {
	pubErr := b.publisher.Close()
	if !b.inProcess {
		if err := b.subscriber.Close(); err != nil {
			return err
		}
	}
	return pubErr
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []TestCompleted
	Err    error
}

func (r *Recorder) PublishTestCompleted(_ context.Context, event TestCompleted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Published() []TestCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TestCompleted(nil), r.Events...)
}
