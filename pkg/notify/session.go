package notify

import (
	"sync"
)

// Session is one channel owner's notification in the making: the selected mode,
// the draft, the recipients and the state of the current dispatch attempt.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	channel    string
	code       ModeCode
	to         string
	recipients *RecipientSet
	draft      Draft

	state State
	info  string
	err   error
}

// NewSession starts an idle session for the channel address. Delimiters
// configure the recipient registry; DefaultDelimiters apply when none are given.
func NewSession(channel string, delimiters ...string) *Session {
	return &Session{
		channel:    channel,
		recipients: NewRecipientSet(delimiters...),
	}
}

func (s *Session) Channel() string { return s.channel }

// SetMode selects the delivery mode. Recipients are scoped to a mode and are
// cleared on every call, even when the mode does not change.
func (s *Session) SetMode(code ModeCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
	s.to = ""
	s.recipients.Reset()
}

func (s *Session) ModeCode() ModeCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// SetRecipient sets the single recipient of a secret or targeted notification.
func (s *Session) SetRecipient(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to = addr
}

// SetPending updates the recipient text being typed.
func (s *Session) SetPending(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients.SetPending(text)
}

// KeyPress feeds a key to the recipient registry; see RecipientSet.AddOnDelimiter.
func (s *Session) KeyPress(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipients.AddOnDelimiter(key)
}

func (s *Session) RemoveRecipient(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients.Remove(addr)
}

func (s *Session) Recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipients.Addresses()
}

// Edit applies fn to a copy of the draft and stores the result. fn runs
// without the session lock held, so it may call other Session methods;
// concurrent edits are last writer wins.
func (s *Session) Edit(fn func(d *Draft)) {
	d := s.Draft()
	fn(&d)
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
}

func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Mode builds the tagged mode from the current selection, nil when none is selected.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modeLocked()
}

func (s *Session) modeLocked() Mode {
	switch s.code {
	case CodeBroadcast:
		return Broadcast{Channel: s.channel}
	case CodeSecret:
		return Secret{To: s.to}
	case CodeTargeted:
		return Targeted{To: s.to}
	case CodeSubset:
		return Subset{Channel: s.channel, Recipients: s.recipients.Addresses()}
	default:
		return nil
	}
}

// State returns the dispatch state and its info message.
func (s *Session) State() (State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.info
}

// Err is the error of the last failed attempt.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel discards the draft and recipients. It has no effect on an attempt
// that is already processing.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return
	}
	s.resetLocked()
	s.state, s.info, s.err = StateIdle, "", nil
}

func (s *Session) resetLocked() {
	s.draft = Draft{}
	s.to = ""
	s.recipients.Reset()
}

// begin moves the session into processing and snapshots what will be sent.
func (s *Session) begin() (Mode, Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return nil, Draft{}, ErrAttemptInProgress
	}
	s.state, s.info, s.err = StateProcessing, InfoPreparing, nil
	return s.modeLocked(), s.draft, nil
}

func (s *Session) progress(info string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

func (s *Session) fail(err *DispatchError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.info, s.err = StateFailed, err.Info, err
}

func (s *Session) complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.state, s.info, s.err = StateCompleted, InfoCompleted, nil
}
