package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roboricindustries/raycon-notify/pkg/schemas/notifications"
)

// SessionFromRequest builds the session a dispatch request describes. Subset
// recipients go through the delimiter registry, so duplicates collapse the same
// way they do for typed input. An unknown mode leaves the session without one.
func SessionFromRequest(channel string, req notifications.DispatchRequest) *Session {
	s := NewSession(channel)
	code, err := ParseModeCode(req.Mode)
	if err == nil {
		s.SetMode(code)
	}
	s.SetRecipient(req.Recipient)
	for _, r := range req.Recipients {
		s.SetPending(r)
		s.KeyPress(DefaultDelimiters[0])
	}
	s.Edit(func(d *Draft) {
		d.Subject = optional(req.Subject)
		d.Body = req.Body
		d.CTA = optional(req.CTA)
		d.Media = optional(req.Media)
	})
	return s
}

func optional(v *string) Field {
	if v == nil {
		return Field{}
	}
	return On(*v)
}

// RequestHandler runs dispatch requests from the broker for one channel.
type RequestHandler struct {
	d       *Dispatcher
	channel string
	log     *slog.Logger
}

func NewRequestHandler(d *Dispatcher, channel string, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{d: d, channel: channel, log: orDiscard(logger)}
}

// Handle dispatches req exactly once. A failed attempt is reported through the
// outcome event and is not an error here, so the request is never redelivered.
func (h *RequestHandler) Handle(ctx context.Context, req notifications.DispatchRequest) error {
	s := SessionFromRequest(h.channel, req)
	res, err := h.d.dispatch(ctx, s, req.CorrelationID)
	var derr *DispatchError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &derr):
		h.log.Info("dispatch request failed",
			slog.String("attempt_id", res.AttemptID),
			slog.String("correlation_id", req.CorrelationID),
			slog.String("kind", derr.Kind.String()),
		)
		return nil
	default:
		return err
	}
}
