package app

import (
	"testing"

	"github.com/roboricindustries/raycon-notify/internal/config"
	"github.com/roboricindustries/raycon-notify/pkg/storage/ipfs"
	"github.com/roboricindustries/raycon-notify/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStorage(t *testing.T) {
	s, err := OpenStorage(t.Context(), config.Storage{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	s, err = OpenStorage(t.Context(), config.Storage{Backend: config.BackendIPFS, IPFSAPIURL: "http://127.0.0.1:5001"})
	require.NoError(t, err)
	assert.IsType(t, &ipfs.Client{}, s)

	_, err = OpenStorage(t.Context(), config.Storage{Backend: config.BackendIPFS, IPFSAPIURL: "not a url"})
	assert.Error(t, err)

	_, err = OpenStorage(t.Context(), config.Storage{Backend: config.BackendS3})
	assert.Error(t, err, "bucket is required")

	_, err = OpenStorage(t.Context(), config.Storage{Backend: "ftp"})
	assert.Error(t, err)
}
