package notify

import (
	"errors"
	"slices"

	"github.com/roboricindustries/raycon-notify/pkg/hybrid"
	"github.com/roboricindustries/raycon-notify/pkg/schemas/notifications"
)

// Outer texts of a secret notification; the real content is only in the ciphertext.
const (
	SecretTitle = "You have a secret message!"
	SecretBody  = "Open the app to see your secret message!"
)

var errSecretNeedsEnvelope = errors.New("secret notifications are built with SecretPayload")

// PlainPayload builds the payload of a broadcast, targeted or subset notification.
func PlainPayload(m Mode, d Draft) (notifications.Payload, error) {
	if _, ok := m.(Secret); ok {
		return notifications.Payload{}, errSecretNeedsEnvelope
	}
	p := notifications.Payload{
		Notification: notifications.Notification{
			Title: d.Subject.Content(),
			Body:  d.Body,
		},
		Data: notifications.Data{
			Type: m.Code().String(),
			ASub: d.Subject.Content(),
			AMsg: d.Body,
			ACTA: d.CTA.Content(),
			AImg: d.Media.Content(),
		},
	}
	if s, ok := m.(Subset); ok {
		p.Recipients = slices.Clone(s.Recipients)
	}
	return p, nil
}

// SecretPayload builds the payload of a secret notification from its sealed envelope.
func SecretPayload(_ Secret, env hybrid.Envelope) notifications.Payload {
	return notifications.Payload{
		Notification: notifications.Notification{
			Title: SecretTitle,
			Body:  SecretBody,
		},
		Data: notifications.Data{
			Type:   CodeSecret.String(),
			Secret: env.Secret,
			ASub:   env.Subject,
			AMsg:   env.Body,
			ACTA:   env.CTA,
			AImg:   env.Media,
		},
	}
}

func fieldsOf(d Draft) hybrid.Fields {
	return hybrid.Fields{
		Subject: d.Subject.Content(),
		Body:    d.Body,
		CTA:     d.CTA.Content(),
		Media:   d.Media.Content(),
	}
}
