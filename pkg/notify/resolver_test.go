package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyResolver_CachesHits(t *testing.T) {
	reg := &fakeRegistry{keys: map[string][]byte{"0xAbC": {0x04, 0x01}}}
	r := NewKeyResolver(reg, time.Minute, nil)

	key, found, err := r.Resolve(t.Context(), "0xAbC")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{0x04, 0x01}, key)

	key, found, err = r.Resolve(t.Context(), "0xabc")
	require.NoError(t, err)
	assert.True(t, found, "cache is case-insensitive")
	assert.Equal(t, []byte{0x04, 0x01}, key)
	assert.Equal(t, 1, reg.calls)
}

func TestKeyResolver_MissesAreNotCached(t *testing.T) {
	reg := &fakeRegistry{keys: map[string][]byte{}}
	r := NewKeyResolver(reg, time.Minute, nil)

	_, found, err := r.Resolve(t.Context(), "0xa")
	require.NoError(t, err)
	assert.False(t, found)

	reg.keys["0xa"] = []byte{0x04}
	_, found, err = r.Resolve(t.Context(), "0xa")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, reg.calls)
}

func TestKeyResolver_NoCache(t *testing.T) {
	reg := &fakeRegistry{keys: map[string][]byte{"0xa": {0x04}}}
	r := NewKeyResolver(reg, 0, nil)

	for range 3 {
		_, _, err := r.Resolve(t.Context(), "0xa")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, reg.calls)
}

func TestKeyResolver_Error(t *testing.T) {
	boom := errors.New("rpc down")
	r := NewKeyResolver(&fakeRegistry{err: boom}, time.Minute, nil)

	_, found, err := r.Resolve(t.Context(), "0xa")
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
}
