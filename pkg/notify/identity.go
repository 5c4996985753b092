package notify

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedIdentity = errors.New("malformed identity")

// FormatIdentity builds the "<mode>+<pointer>" reference submitted on-chain.
func FormatIdentity(code ModeCode, pointer string) string {
	return code.String() + "+" + pointer
}

// ParseIdentity splits on the first "+"; the pointer may contain further "+".
func ParseIdentity(s string) (ModeCode, string, error) {
	head, pointer, ok := strings.Cut(s, "+")
	if !ok || pointer == "" {
		return CodeReserved, "", fmt.Errorf("%w: %q", ErrMalformedIdentity, s)
	}
	code, err := ParseModeCode(head)
	if err != nil {
		return CodeReserved, "", fmt.Errorf("%w: %w", ErrMalformedIdentity, err)
	}
	return code, pointer, nil
}
