package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/roboricindustries/raycon-notify/pkg/schemas/common"
)

type Publisher interface {
	Publish(ctx context.Context, key string, msg common.Envelope) error
	Close() error
}

var ErrNotConfirmed = errors.New("publish not confirmed by broker")

// PublisherConfig describes where outcome events go.
type PublisherConfig struct {
	URL           string
	Exchange      string
	Producer      string
	RetryAttempts int
	RetryDelay    time.Duration
	// Channels kept open between publishes; 0 uses a default.
	PoolSize int
}

type rmqClient struct {
	conn     *amqp091.Connection
	pool     *confirmPool
	exchange string
	producer string
	log      *slog.Logger
}

// New connects, declares the topic exchange and returns a confirming publisher.
func New(ctx context.Context, cfg PublisherConfig, logger *slog.Logger) (Publisher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	conn, err := DialWithRetry(ctx, ConnectionOptions{
		URL:           cfg.URL,
		RetryAttempts: cfg.RetryAttempts,
		Delay:         cfg.RetryDelay,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(
		cfg.Exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", cfg.Exchange, err)
	}

	return &rmqClient{
		conn:     conn,
		pool:     newConfirmPool(conn, cfg.PoolSize),
		exchange: cfg.Exchange,
		producer: cfg.Producer,
		log:      logger,
	}, nil
}

// Publish sends msg on a pooled confirm-mode channel and waits for the broker ack.
func (r *rmqClient) Publish(ctx context.Context, key string, msg common.Envelope) error {
	pub, err := publishing(msg, r.producer)
	if err != nil {
		return err
	}
	ch, err := r.pool.get()
	if err != nil {
		return err
	}
	conf, err := ch.PublishWithDeferredConfirmWithContext(ctx, r.exchange, key, false, false, pub)
	if err != nil {
		r.pool.discard(ch)
		return err
	}
	ok, err := conf.WaitContext(ctx)
	if err != nil {
		r.pool.discard(ch)
		return err
	}
	r.pool.put(ch)
	if !ok {
		return ErrNotConfirmed
	}
	r.log.Info("published",
		slog.String("key", key),
		slog.String("exchange", r.exchange),
		slog.String("type", msg.Meta.Type),
	)
	return nil
}

func (r *rmqClient) Close() error {
	r.pool.close()
	return r.conn.Close()
}

// publishing maps an envelope to AMQP properties. Missing IDs are generated.
func publishing(msg common.Envelope, producer string) (amqp091.Publishing, error) {
	if msg.Meta.ID == "" {
		msg.Meta.ID = uuid.NewString()
	}
	cid := msg.Meta.ID
	if msg.Meta.CorrelationID != nil {
		cid = *msg.Meta.CorrelationID
	}
	if msg.Meta.Time.IsZero() {
		msg.Meta.Time = time.Now().UTC()
	}
	if msg.Meta.Producer == nil && producer != "" {
		msg.Meta.Producer = &producer
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal envelope: %w", err)
	}
	return amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		MessageId:     msg.Meta.ID,
		CorrelationId: cid,
		Type:          msg.Meta.Type,
		Timestamp:     msg.Meta.Time,
		AppId:         producer,
		Body:          body,
	}, nil
}
