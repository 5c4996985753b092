// Command notifyd dispatches notifications requested over RabbitMQ.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roboricindustries/raycon-notify/internal/app"
	"github.com/roboricindustries/raycon-notify/internal/config"
	"github.com/roboricindustries/raycon-notify/internal/logging"
	"github.com/roboricindustries/raycon-notify/pkg/notify"
	"github.com/roboricindustries/raycon-notify/pkg/pubsub"
	"github.com/roboricindustries/raycon-notify/pkg/schemas/notifications"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "notifyd:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Broker.URL == "" {
		return errors.New("NOTIFY_BROKER_URL is required")
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a, err := app.Build(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()

	sub, err := pubsub.NewSubscriber(ctx, pubsub.SubscriberConfig{
		URL:           cfg.Broker.URL,
		Exchange:      cfg.Broker.Exchange,
		Workers:       cfg.Broker.Workers,
		Prefetch:      cfg.Broker.Prefetch,
		RetryAttempts: cfg.Broker.RetryAttempts,
		RetryDelay:    cfg.Broker.RetryDelay,
	}, logger.With("component", "subscriber"))
	if err != nil {
		return err
	}

	handler := notify.NewRequestHandler(a.Dispatcher, a.Chain.Address(), logger.With("component", "handler"))
	sub.RegisterHandler(notifications.RequestedKey, pubsub.JSONHandler(handler.Handle))
	if err := sub.Start(cfg.Broker.Queue); err != nil {
		sub.Close()
		return err
	}

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", slog.Any("error", err))
			}
		}()
	}

	logger.Info("notifyd running",
		slog.String("queue", cfg.Broker.Queue),
		slog.String("channel", a.Chain.Address()),
	)
	<-ctx.Done()
	logger.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return sub.Close()
}
