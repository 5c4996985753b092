package notify

import (
	"errors"
	"strings"
)

// Kind classifies why a dispatch attempt failed.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindKeyResolution
	KindEncryption
	KindStorage
	KindChain
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindKeyResolution:
		return "key_resolution"
	case KindEncryption:
		return "encryption"
	case KindStorage:
		return "storage"
	case KindChain:
		return "chain"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	ErrKeyResolution = errors.New("recipient has no registered public key")
	ErrEncryption    = errors.New("encryption failed")
	ErrStorage       = errors.New("storage upload failed")
	ErrChain         = errors.New("transaction failed")
	ErrCancelled     = errors.New("dispatch cancelled")

	// ErrAttemptInProgress is returned when a session is already processing.
	ErrAttemptInProgress = errors.New("dispatch attempt already in progress")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindKeyResolution:
		return ErrKeyResolution
	case KindEncryption:
		return ErrEncryption
	case KindStorage:
		return ErrStorage
	case KindChain:
		return ErrChain
	case KindCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

// DispatchError is the terminal error of a failed attempt.
type DispatchError struct {
	Kind Kind
	// Info is the message shown to the channel owner.
	Info string
	Err  error
}

func (e *DispatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Info)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DispatchError) Unwrap() error { return e.Err }

func (e *DispatchError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
