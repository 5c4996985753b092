package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{Body: "hello"}
}

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
	return ve.Reason
}

func TestValidate_Rules(t *testing.T) {
	broadcast := Broadcast{Channel: "0xchannel"}

	tests := []struct {
		name  string
		draft Draft
		mode  Mode
		want  Reason
	}{
		{"no mode", validDraft(), nil, ReasonNoMode},
		{"empty subset", validDraft(), Subset{Channel: "0xchannel"}, ReasonInsufficientRecipients},
		{"enabled blank subject", Draft{Subject: On(" "), Body: "x"}, broadcast, ReasonMissingSubject},
		{"enabled blank media", Draft{Media: On(""), Body: "x"}, broadcast, ReasonMissingMedia},
		{"enabled blank cta", Draft{CTA: On("\t"), Body: "x"}, broadcast, ReasonMissingCTA},
		{"blank body", Draft{Body: "  \n"}, broadcast, ReasonMissingBody},
		{"secret without recipient", validDraft(), Secret{}, ReasonMissingRecipient},
		{"targeted without recipient", validDraft(), Targeted{To: " "}, ReasonMissingRecipient},
		// Rules apply in order; the subject check wins over the body check.
		{"first failure reported", Draft{Subject: On(""), Body: ""}, broadcast, ReasonMissingSubject},
		{"subset before fields", Draft{Subject: On("")}, Subset{}, ReasonInsufficientRecipients},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.draft, tt.mode)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.want, reasonOf(t, err))
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	ok := []struct {
		name  string
		draft Draft
		mode  Mode
	}{
		{"broadcast", validDraft(), Broadcast{Channel: "0xchannel"}},
		{"disabled blank fields", Draft{Subject: Field{Value: ""}, CTA: Field{}, Body: "x"}, Broadcast{}},
		{"full draft", Draft{Subject: On("s"), Body: "b", CTA: On("https://x"), Media: On("ipfs://m")}, Targeted{To: "0xa"}},
		{"one subset recipient", validDraft(), Subset{Recipients: []string{"0xa"}}},
		{"secret", validDraft(), Secret{To: "0xa"}},
	}
	for _, tt := range ok {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate(tt.draft, tt.mode))
		})
	}
}

func TestValidate_OptionalFieldRejectedIffBlank(t *testing.T) {
	values := []string{"", " ", "\t", "\n \r", "a", " a ", "ipfs://x"}
	for _, v := range values {
		for name, d := range map[string]Draft{
			"subject": {Subject: On(v), Body: "b"},
			"media":   {Media: On(v), Body: "b"},
			"cta":     {CTA: On(v), Body: "b"},
		} {
			err := Validate(d, Broadcast{})
			if blank(v) {
				assert.Error(t, err, "%s=%q", name, v)
			} else {
				assert.NoError(t, err, "%s=%q", name, v)
			}
		}
	}
}

func TestValidator_Strict(t *testing.T) {
	const good = "0x00000000000000000000000000000000000000aa"

	lax := NewValidator(false)
	assert.NoError(t, lax.Validate(validDraft(), Targeted{To: "alice"}))

	strict := NewValidator(true)
	assert.NoError(t, strict.Validate(validDraft(), Targeted{To: good}))
	assert.NoError(t, strict.Validate(validDraft(), Broadcast{Channel: "anything"}))

	err := strict.Validate(validDraft(), Secret{To: "alice"})
	assert.Equal(t, ReasonInvalidRecipient, reasonOf(t, err))

	err = strict.Validate(validDraft(), Subset{Recipients: []string{good, "0x1234"}})
	assert.Equal(t, ReasonInvalidRecipient, reasonOf(t, err))

	err = strict.Validate(Draft{}, Secret{To: "alice"})
	assert.Equal(t, ReasonMissingBody, reasonOf(t, err), "base rules run first")
}

func TestDispatchError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := error(&DispatchError{Kind: KindStorage, Info: "Storage Upload Error", Err: cause})

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrChain)
	assert.Equal(t, "storage: Storage Upload Error: boom", err.Error())
}
