package pubsub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Handler func(context.Context, amqp091.Delivery) error

type Subscriber interface {
	RegisterHandler(routingKey string, handler Handler)
	Start(queueName string) error
	Close() error
}

// SubscriberConfig sizes the worker pool. HandlerTimeout of zero lets a handler
// run until it returns; dispatch handlers wait for chain confirmations.
type SubscriberConfig struct {
	URL            string
	Exchange       string
	BufferCap      int
	Workers        int
	Prefetch       int
	HandlerTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

type rmqSubscriber struct {
	conn     *amqp091.Connection
	ch       *amqp091.Channel
	exchange string
	log      *slog.Logger
	handlers map[string]Handler
	msgChan  chan amqp091.Delivery
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	cfg      SubscriberConfig
}

func NewSubscriber(ctx context.Context, cfg SubscriberConfig, logger *slog.Logger) (Subscriber, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferCap <= 0 {
		cfg.BufferCap = cfg.Workers
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = cfg.Workers
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
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &rmqSubscriber{
		conn:     conn,
		ch:       ch,
		exchange: cfg.Exchange,
		log:      logger,
		handlers: make(map[string]Handler),
		msgChan:  make(chan amqp091.Delivery, cfg.BufferCap),
		done:     make(chan struct{}),
		cfg:      cfg,
	}, nil
}

// RegisterHandler must be called before Start.
func (s *rmqSubscriber) RegisterHandler(routingKey string, handler Handler) {
	s.handlers[routingKey] = handler
}

func (s *rmqSubscriber) Start(queueName string) error {
	var startErr error
	s.once.Do(func() {
		if err := s.setupQueue(queueName); err != nil {
			startErr = err
			return
		}

		s.runWorkerPool()
		s.log.Info("subscriber started",
			slog.String("queue", queueName),
			slog.Int("workers", s.cfg.Workers),
		)
	})
	return startErr
}

func (s *rmqSubscriber) setupQueue(queueName string) error {
	if err := s.ch.Qos(s.cfg.Prefetch, 0, false); err != nil {
		return err
	}
	q, err := s.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return err
	}
	for key := range s.handlers {
		if err := s.ch.QueueBind(q.Name, key, s.exchange, false, nil); err != nil {
			return err
		}
	}
	msgs, err := s.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		defer close(s.msgChan)
		for {
			select {
			case <-s.done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case s.msgChan <- msg:
				case <-s.done:
					_ = msg.Nack(false, true)
					return
				}
			}
		}
	}()
	return nil
}

func (s *rmqSubscriber) runWorkerPool() {
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.workerLoop()
	}
}

// workerLoop handles each delivery once. Failed deliveries are rejected without
// requeue; redelivery would repeat storage writes and transactions.
func (s *rmqSubscriber) workerLoop() {
	defer s.wg.Done()
	for msg := range s.msgChan {
		handler, ok := s.handlers[msg.RoutingKey]
		if !ok {
			s.log.Warn("no handler", slog.String("key", msg.RoutingKey))
			_ = msg.Nack(false, false)
			continue
		}
		ctx, cancel := context.Background(), context.CancelFunc(func() {})
		if s.cfg.HandlerTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, s.cfg.HandlerTimeout)
		}
		err := handler(ctx, msg)
		cancel()
		switch {
		case errors.Is(err, ErrPoison):
			s.log.Warn("poison message", slog.String("key", msg.RoutingKey), slog.String("id", msg.MessageId))
			_ = msg.Nack(false, false)
		case err != nil:
			s.log.Error("handler error", slog.String("key", msg.RoutingKey), slog.Any("err", err))
			_ = msg.Nack(false, false)
		default:
			_ = msg.Ack(false)
		}
	}
}

func (s *rmqSubscriber) Close() error {
	close(s.done)
	s.wg.Wait()
	_ = s.ch.Close()
	return s.conn.Close()
}
