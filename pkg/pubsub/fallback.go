package pubsub

import (
	"context"
	"log/slog"

	"github.com/roboricindustries/raycon-notify/pkg/schemas/common"
)

// FallbackPublisher drops events. It stands in when no broker is configured so the
// dispatch pipeline runs the same way with or without RabbitMQ.
type FallbackPublisher struct {
	log *slog.Logger
}

func (p *FallbackPublisher) Publish(ctx context.Context, key string, msg common.Envelope) error {
	p.log.Debug("FallbackPublisher: skipped publish",
		slog.String("key", key),
		slog.String("type", msg.Meta.Type),
		slog.String("id", msg.Meta.ID),
	)
	return nil
}

func (p *FallbackPublisher) Close() error {
	return nil
}

func NewFallback(logger *slog.Logger) Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FallbackPublisher{
		log: logger,
	}
}
