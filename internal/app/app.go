// Package app wires configuration into a ready Dispatcher.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/roboricindustries/raycon-notify/internal/config"
	"github.com/roboricindustries/raycon-notify/pkg/chain"
	"github.com/roboricindustries/raycon-notify/pkg/notify"
	"github.com/roboricindustries/raycon-notify/pkg/pubsub"
	"github.com/roboricindustries/raycon-notify/pkg/storage"
	"github.com/roboricindustries/raycon-notify/pkg/storage/ipfs"
	"github.com/roboricindustries/raycon-notify/pkg/storage/memory"
	"github.com/roboricindustries/raycon-notify/pkg/storage/s3"
)

type App struct {
	Dispatcher *notify.Dispatcher
	Chain      *chain.Client
	Events     pubsub.Publisher
}

// Build connects to the chain, the storage backend and, when configured, the
// broker. reg may be nil.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	const op = "app.Build"
	log := logger.With("op", op)

	store, err := OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	client, err := chain.Dial(ctx, chain.Config{
		RPCURL:            cfg.Chain.RPCURL,
		CoreAddress:       cfg.Chain.CoreAddress,
		PrivateKey:        cfg.Chain.PrivateKey,
		ChainID:           cfg.Chain.ChainID,
		RegistryFromBlock: cfg.Chain.RegistryFromBlock,
		PollInterval:      cfg.Chain.PollInterval,
	}, logger.With("component", "chain"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var events pubsub.Publisher
	if cfg.Broker.URL == "" {
		log.Warn("no broker configured, outcome events are dropped")
		events = pubsub.NewFallback(logger)
	} else {
		events, err = pubsub.New(ctx, pubsub.PublisherConfig{
			URL:           cfg.Broker.URL,
			Exchange:      cfg.Broker.EventsExchange,
			Producer:      cfg.Dispatch.Producer,
			RetryAttempts: cfg.Broker.RetryAttempts,
			RetryDelay:    cfg.Broker.RetryDelay,
		}, logger.With("component", "publisher"))
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("%s: publisher: %w", op, err)
		}
	}

	metrics, err := notify.NewMetrics(reg)
	if err != nil {
		events.Close()
		client.Close()
		return nil, fmt.Errorf("%s: metrics: %w", op, err)
	}

	d, err := notify.NewDispatcher(notify.Config{
		Confirmations:   cfg.Dispatch.Confirmations,
		Timeout:         cfg.Dispatch.Timeout,
		SecretLength:    cfg.Dispatch.SecretLength,
		LaxAddresses:    !cfg.Dispatch.StrictAddresses,
		Producer:        cfg.Dispatch.Producer,
	}, notify.Deps{
		Storage: store,
		Ledger:  client,
		Keys:    notify.NewKeyResolver(client, cfg.Dispatch.KeyCacheTTL, logger),
		Events:  events,
		Metrics: metrics,
		Logger:  logger.With("component", "dispatcher"),
	})
	if err != nil {
		events.Close()
		client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("dispatcher ready",
		slog.String("channel", client.Address()),
		slog.String("storage", cfg.Storage.Backend),
	)
	return &App{Dispatcher: d, Chain: client, Events: events}, nil
}

func (a *App) Close() error {
	err := a.Events.Close()
	a.Chain.Close()
	return err
}

// OpenStorage returns the configured payload store.
func OpenStorage(ctx context.Context, cfg config.Storage) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendIPFS:
		c, err := ipfs.New(ipfs.Config{
			APIURL:     cfg.IPFSAPIURL,
			Pin:        cfg.IPFSPin,
			CIDVersion: cfg.CIDVersion,
		}, nil)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendS3:
		st, err := s3.New(ctx, s3.Config{
			Region:   cfg.S3Region,
			Bucket:   cfg.S3Bucket,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3Prefix,
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, errors.New("unknown storage backend " + cfg.Backend)
	}
}
