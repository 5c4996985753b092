package memory

import (
	"context"
	"testing"

	"github.com/roboricindustries/raycon-notify/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	s := New()
	p1, err := s.Put(t.Context(), []byte("one"))
	require.NoError(t, err)
	p2, err := s.Put(t.Context(), []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(t.Context(), p1)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	_, err = s.Get(t.Context(), "sha256-missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := New().Put(ctx, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}
