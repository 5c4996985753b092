package pubsub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type ackCall struct {
	tag     uint64
	op      string
	requeue bool
}

// recordingAcker stands in for the AMQP channel behind a delivery.
type recordingAcker struct {
	mu    sync.Mutex
	calls []ackCall
}

func (a *recordingAcker) record(c ackCall) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, c)
	return nil
}

func (a *recordingAcker) Ack(tag uint64, _ bool) error {
	return a.record(ackCall{tag: tag, op: "ack"})
}

func (a *recordingAcker) Nack(tag uint64, _ bool, requeue bool) error {
	return a.record(ackCall{tag: tag, op: "nack", requeue: requeue})
}

func (a *recordingAcker) Reject(tag uint64, requeue bool) error {
	return a.record(ackCall{tag: tag, op: "reject", requeue: requeue})
}

func TestWorkerLoop_SettlesEveryDeliveryOnce(t *testing.T) {
	t.Parallel()

	const key = "notification.dispatch.requested.v1"
	s := &rmqSubscriber{
		log:      slog.New(slog.DiscardHandler),
		handlers: map[string]Handler{},
		msgChan:  make(chan amqp091.Delivery, 4),
		cfg:      SubscriberConfig{Workers: 1},
	}
	s.RegisterHandler(key, JSONHandler(func(_ context.Context, v sample) error {
		if v.Name == "fail" {
			return errors.New("dispatch failed")
		}
		return nil
	}))

	acker := &recordingAcker{}
	for i, d := range []amqp091.Delivery{
		{RoutingKey: key, Body: []byte(`{"name":"ok"}`)},
		{RoutingKey: key, Body: []byte(`{not json`)},
		{RoutingKey: key, Body: []byte(`{"name":"fail"}`)},
		{RoutingKey: "unknown.key", Body: []byte(`{}`)},
	} {
		d.Acknowledger = acker
		d.DeliveryTag = uint64(i + 1)
		s.msgChan <- d
	}
	close(s.msgChan)

	s.wg.Add(1)
	s.workerLoop()

	assert.Equal(t, []ackCall{
		{tag: 1, op: "ack"},
		{tag: 2, op: "nack", requeue: false},
		{tag: 3, op: "nack", requeue: false},
		{tag: 4, op: "nack", requeue: false},
	}, acker.calls)
}
