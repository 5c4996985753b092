// Package notify composes channel notifications and dispatches them: it validates
// a draft per delivery mode, seals secret notifications, writes the payload to
// content-addressed storage and submits the resulting identity to the protocol
// contract.
package notify

import (
	"errors"
	"fmt"
	"strconv"
)

// ModeCode is the numeric delivery mode embedded in the on-chain identity.
type ModeCode int

const (
	// CodeReserved is kept for protocol storage and never emitted here.
	CodeReserved ModeCode = iota
	CodeBroadcast
	CodeSecret
	CodeTargeted
	CodeSubset
)

var ErrUnknownMode = errors.New("unknown notification mode")

func (c ModeCode) String() string { return strconv.Itoa(int(c)) }

// Name is the lowercase label used in logs and metrics.
func (c ModeCode) Name() string {
	switch c {
	case CodeBroadcast:
		return "broadcast"
	case CodeSecret:
		return "secret"
	case CodeTargeted:
		return "targeted"
	case CodeSubset:
		return "subset"
	default:
		return "none"
	}
}

// Valid reports whether c is one of the four emitted codes.
func (c ModeCode) Valid() bool { return c >= CodeBroadcast && c <= CodeSubset }

// ParseModeCode accepts exactly "1" through "4".
func ParseModeCode(s string) (ModeCode, error) {
	if len(s) != 1 || s[0] < '1' || s[0] > '4' {
		return CodeReserved, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return ModeCode(s[0] - '0'), nil
}

// Mode is one delivery mode together with the addressing it needs.
// The set of implementations is closed: Broadcast, Secret, Targeted and Subset.
type Mode interface {
	Code() ModeCode
	// Recipient is the address passed to the contract.
	Recipient() string
	mode()
}

// Broadcast reaches every subscriber; the channel itself is the nominal recipient.
type Broadcast struct {
	Channel string
}

// Secret is delivered to one recipient with its content sealed for that recipient's key.
type Secret struct {
	To string
}

// Targeted is delivered in plaintext to one recipient.
type Targeted struct {
	To string
}

// Subset is delivered to an explicit list of recipients carried in the payload.
type Subset struct {
	Channel    string
	Recipients []string
}

func (Broadcast) Code() ModeCode { return CodeBroadcast }
func (Secret) Code() ModeCode    { return CodeSecret }
func (Targeted) Code() ModeCode  { return CodeTargeted }
func (Subset) Code() ModeCode    { return CodeSubset }

func (m Broadcast) Recipient() string { return m.Channel }
func (m Secret) Recipient() string    { return m.To }
func (m Targeted) Recipient() string  { return m.To }
func (m Subset) Recipient() string    { return m.Channel }

func (Broadcast) mode() {}
func (Secret) mode()    {}
func (Targeted) mode()  {}
func (Subset) mode()    {}
