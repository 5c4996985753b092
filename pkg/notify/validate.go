package notify

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MinSubsetRecipients is the smallest recipient list a subset notification accepts.
const MinSubsetRecipients = 1

type Reason string

const (
	ReasonNoMode                 Reason = "no_mode"
	ReasonInsufficientRecipients Reason = "insufficient_recipients"
	ReasonMissingSubject         Reason = "missing_subject"
	ReasonMissingMedia           Reason = "missing_media"
	ReasonMissingCTA             Reason = "missing_cta"
	ReasonMissingBody            Reason = "missing_body"
	ReasonMissingRecipient       Reason = "missing_recipient"
	ReasonInvalidRecipient       Reason = "invalid_recipient"
)

var ErrValidation = errors.New("invalid notification")

// ValidationError names the first rule a draft broke.
type ValidationError struct {
	Field  string
	Reason Reason
	// Info is the message shown to the channel owner.
	Info string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field string, r Reason, info string) error {
	return &ValidationError{Field: field, Reason: r, Info: info}
}

// Validate checks d against m before any network or storage work. Rules apply in
// order and the first failure is returned.
func Validate(d Draft, m Mode) error {
	if m == nil {
		return invalid("mode", ReasonNoMode, "Select a notification type")
	}
	if s, ok := m.(Subset); ok && len(s.Recipients) < MinSubsetRecipients {
		return invalid("recipients", ReasonInsufficientRecipients,
			"Please enter at least one recipient in order to use subset notifications type")
	}
	if d.Subject.Enabled && blank(d.Subject.Value) {
		return invalid("subject", ReasonMissingSubject, "Enter Subject or Disable it")
	}
	if d.Media.Enabled && blank(d.Media.Value) {
		return invalid("media", ReasonMissingMedia, "Enter Media URL or Disable it")
	}
	if d.CTA.Enabled && blank(d.CTA.Value) {
		return invalid("cta", ReasonMissingCTA, "Enter Call to Action Link or Disable it")
	}
	if blank(d.Body) {
		return invalid("body", ReasonMissingBody, "Message cannot be empty")
	}
	switch m := m.(type) {
	case Secret:
		if blank(m.To) {
			return invalid("recipient", ReasonMissingRecipient, "Enter the recipient address")
		}
	case Targeted:
		if blank(m.To) {
			return invalid("recipient", ReasonMissingRecipient, "Enter the recipient address")
		}
	}
	return nil
}

// Validator runs Validate and, when strict, checks recipient addresses.
type Validator struct {
	strict bool
	v      *validator.Validate
}

func NewValidator(strictAddresses bool) *Validator {
	return &Validator{
		strict: strictAddresses,
		v:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *Validator) Validate(d Draft, m Mode) error {
	if err := Validate(d, m); err != nil {
		return err
	}
	if !v.strict {
		return nil
	}
	for _, addr := range addressesOf(m) {
		if err := v.v.Var(addr, "required,eth_addr"); err != nil {
			return invalid("recipient", ReasonInvalidRecipient,
				fmt.Sprintf("%s is not a valid address", addr))
		}
	}
	return nil
}

// addressesOf lists the user supplied addresses of m.
func addressesOf(m Mode) []string {
	switch m := m.(type) {
	case Secret:
		return []string{m.To}
	case Targeted:
		return []string{m.To}
	case Subset:
		return m.Recipients
	default:
		return nil
	}
}
