package notify

import (
	"errors"
	"testing"

	"github.com/roboricindustries/raycon-notify/pkg/schemas/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestSessionFromRequest(t *testing.T) {
	s := SessionFromRequest(channel, notifications.DispatchRequest{
		Mode:       "4",
		Recipients: []string{alice, " ", alice, bob},
		Subject:    ptr("hi"),
		Body:       "body",
		Media:      ptr("ipfs://m"),
	})

	assert.Equal(t, Subset{Channel: channel, Recipients: []string{alice, bob}}, s.Mode())
	assert.Equal(t, Draft{
		Subject: On("hi"),
		Body:    "body",
		Media:   On("ipfs://m"),
	}, s.Draft())
}

func TestSessionFromRequest_UnknownMode(t *testing.T) {
	s := SessionFromRequest(channel, notifications.DispatchRequest{Mode: "9", Body: "x"})
	assert.Nil(t, s.Mode())
}

func TestRequestHandler(t *testing.T) {
	h := newHarness(t, Config{})
	handler := NewRequestHandler(h.d, channel, nil)

	err := handler.Handle(t.Context(), notifications.DispatchRequest{
		CorrelationID: "req-1",
		Mode:          "3",
		Recipient:     alice,
		Body:          "hi",
	})
	require.NoError(t, err)
	require.Len(t, h.ledger.sent, 1)
	assert.Equal(t, sent{recipient: alice, identity: "3+" + pointer}, h.ledger.sent[0])

	require.Len(t, h.events.out, 1)
	meta := h.events.out[0].env.Meta
	require.NotNil(t, meta.CorrelationID)
	assert.Equal(t, "req-1", *meta.CorrelationID)
}

func TestRequestHandler_FailureIsAcked(t *testing.T) {
	h := newHarness(t, Config{})
	h.storage.err = errors.New("down")
	handler := NewRequestHandler(h.d, channel, nil)

	err := handler.Handle(t.Context(), notifications.DispatchRequest{Mode: "1", Body: "hi"})
	assert.NoError(t, err)
	assert.Equal(t, 1, h.storage.calls())

	failed := h.events.out[0].env.Data.(notifications.FailedV1)
	assert.Equal(t, "storage", failed.Kind)
}
