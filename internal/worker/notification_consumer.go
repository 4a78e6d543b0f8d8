package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
	infraRedis "github.com/sonar-shubham/radiant-salon/internal/infrastructure/redis"
)

// MessageSource is a consumer-group reader on one stream.
type MessageSource interface {
	Stream() string
	Read(ctx context.Context) ([]redis.XMessage, error)
	Ack(ctx context.Context, messageID string) error
	ClaimStale(ctx context.Context, minIdle time.Duration) ([]redis.XMessage, error)
}

type DeadLetterer interface {
	PublishToDLQ(ctx context.Context, msg infraRedis.Message, reason string) error
}

// Locker is a single-owner lease such as *redis.DistributedLock.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type LockFactory func(key string) Locker

// Sender performs the dispatch attempt for one notification.
type Sender interface {
	Execute(ctx context.Context, id uuid.UUID) (*notification.Notification, error)
}

type ConsumerConfig struct {
	DispatchTimeout time.Duration
	// ClaimInterval is how often abandoned messages are taken over; MinIdle is
	// how long a message must sit unacked before it counts as abandoned.
	ClaimInterval time.Duration
	MinIdle       time.Duration
}

// NotificationConsumer dispatches notifications requested through the outbox.
// A message is acked once the provider has been called, even if the outcome
// could not be stored. When nothing was sent (provider breaker open, storage
// error before the send) the message stays pending in the group and is
// reclaimed later.
type NotificationConsumer struct {
	source  MessageSource
	dlq     DeadLetterer
	locks   LockFactory
	sender  Sender
	cfg     ConsumerConfig
	metrics *observability.Metrics
	logger  zerolog.Logger
}

func NewNotificationConsumer(
	source MessageSource,
	dlq DeadLetterer,
	locks LockFactory,
	sender Sender,
	cfg ConsumerConfig,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *NotificationConsumer {
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = 30 * time.Second
	}
	if cfg.ClaimInterval <= 0 {
		cfg.ClaimInterval = 30 * time.Second
	}
	if cfg.MinIdle <= 0 {
		cfg.MinIdle = time.Minute
	}
	return &NotificationConsumer{
		source:  source,
		dlq:     dlq,
		locks:   locks,
		sender:  sender,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With().Str("component", "notification_consumer").Str("stream", source.Stream()).Logger(),
	}
}

// Run reads and handles messages until ctx is cancelled.
func (c *NotificationConsumer) Run(ctx context.Context) error {
	lastClaim := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if time.Since(lastClaim) >= c.cfg.ClaimInterval {
			lastClaim = time.Now()
			stale, err := c.source.ClaimStale(ctx, c.cfg.MinIdle)
			if err != nil {
				c.logger.Error().Err(err).Msg("Failed to claim stale messages")
			}
			for _, m := range stale {
				c.Handle(ctx, m)
			}
		}

		messages, err := c.source.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error().Err(err).Msg("Failed to read from stream")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		for _, m := range messages {
			c.Handle(ctx, m)
		}
	}
}

// Handle processes one stream message.
func (c *NotificationConsumer) Handle(ctx context.Context, m redis.XMessage) {
	start := time.Now()
	status := c.handle(ctx, m)
	if c.metrics != nil {
		stream := c.source.Stream()
		c.metrics.WorkerMessagesProcessed.WithLabelValues(stream, status).Inc()
		c.metrics.WorkerProcessingDuration.WithLabelValues(stream).Observe(time.Since(start).Seconds())
	}
}

func (c *NotificationConsumer) handle(ctx context.Context, m redis.XMessage) string {
	msg, err := infraRedis.DecodeMessage(m)
	if err != nil {
		c.logger.Error().Err(err).Str("message_id", m.ID).Msg("Undecodable stream message")
		c.deadLetter(ctx, msg, err.Error())
		return "dead_lettered"
	}
	if msg.EventType != outbox.EventNotificationRequested {
		c.ack(ctx, m.ID)
		return "skipped"
	}

	log := c.logger.With().Str("notification_id", msg.AggregateID.String()).Logger()

	lock := c.locks("notification:" + msg.AggregateID.String())
	acquired, err := lock.Acquire(ctx)
	if err != nil || !acquired {
		// Another consumer owns it; if that one dies the message is reclaimed.
		log.Debug().Err(err).Msg("Notification locked elsewhere, leaving message pending")
		return "locked"
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("Failed to release notification lock")
		}
	}()

	dctx, cancel := context.WithTimeout(ctx, c.cfg.DispatchTimeout)
	defer cancel()

	n, err := c.sender.Execute(dctx, msg.AggregateID)
	switch {
	case err == nil:
		if c.metrics != nil {
			c.metrics.NotificationsStatus.WithLabelValues(string(n.Type), string(n.Status)).Inc()
		}
		c.ack(ctx, m.ID)
		return "success"
	case errors.Is(err, domainErrors.ErrOutcomeNotRecorded):
		// The provider already has the message; redelivery would send it twice.
		log.Error().Err(err).Msg("Dispatch outcome lost, acking without redelivery")
		c.ack(ctx, m.ID)
		return "unrecorded"
	case errors.Is(err, domainErrors.ErrNotificationNotFound):
		log.Error().Err(err).Msg("Notification does not exist")
		c.deadLetter(ctx, msg, err.Error())
		return "dead_lettered"
	default:
		log.Warn().Err(err).Msg("Dispatch outcome unknown, leaving message for redelivery")
		return "retry"
	}
}

func (c *NotificationConsumer) ack(ctx context.Context, id string) {
	if err := c.source.Ack(ctx, id); err != nil {
		c.logger.Error().Err(err).Str("message_id", id).Msg("Failed to ack message")
	}
}

// deadLetter parks the message and acks it only once it is safely parked.
func (c *NotificationConsumer) deadLetter(ctx context.Context, msg infraRedis.Message, reason string) {
	if err := c.dlq.PublishToDLQ(ctx, msg, reason); err != nil {
		c.logger.Error().Err(err).Str("message_id", msg.StreamID).Msg("Failed to dead-letter message")
		return
	}
	c.ack(ctx, msg.StreamID)
}
