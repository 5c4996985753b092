package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	t.Parallel()

	a := Address([]byte(`{"a":1}`))
	assert.True(t, strings.HasPrefix(a, AddressPrefix))
	assert.Len(t, a, len(AddressPrefix)+64)
	assert.Equal(t, a, Address([]byte(`{"a":1}`)))
	assert.NotEqual(t, a, Address([]byte(`{"a":2}`)))
}
