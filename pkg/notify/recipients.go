package notify

import (
	"slices"
	"strings"
)

// DefaultDelimiters are the keys that commit the pending address.
var DefaultDelimiters = []string{"Enter", ","}

// RecipientSet is the ordered, duplicate-free recipient list of a subset
// notification plus the text typed so far. It is not safe for concurrent use;
// Session serializes access.
type RecipientSet struct {
	delimiters []string
	pending    string
	addrs      []string
}

// NewRecipientSet uses DefaultDelimiters when none are given.
func NewRecipientSet(delimiters ...string) *RecipientSet {
	if len(delimiters) == 0 {
		delimiters = DefaultDelimiters
	}
	return &RecipientSet{delimiters: slices.Clone(delimiters)}
}

func (s *RecipientSet) SetPending(text string) { s.pending = text }

func (s *RecipientSet) Pending() string { return s.pending }

// AddOnDelimiter commits the pending text when key is a delimiter and reports
// whether the key was consumed. Blank pending text is discarded.
func (s *RecipientSet) AddOnDelimiter(key string) bool {
	if !slices.Contains(s.delimiters, key) {
		return false
	}
	s.Add(s.pending)
	s.pending = ""
	return true
}

// Add appends addr unless it is blank or already present.
func (s *RecipientSet) Add(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" || slices.Contains(s.addrs, addr) {
		return false
	}
	s.addrs = append(s.addrs, addr)
	return true
}

// Remove drops addr; absent addresses are ignored.
func (s *RecipientSet) Remove(addr string) {
	if i := slices.Index(s.addrs, addr); i >= 0 {
		s.addrs = slices.Delete(s.addrs, i, i+1)
	}
}

func (s *RecipientSet) Len() int { return len(s.addrs) }

// Addresses returns a copy in insertion order.
func (s *RecipientSet) Addresses() []string { return slices.Clone(s.addrs) }

// Reset empties the set and the pending buffer.
func (s *RecipientSet) Reset() {
	s.addrs = nil
	s.pending = ""
}
