package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactCachePersists(t *testing.T) {
	dir := t.TempDir()
	key := Key("0.8.26", []byte(`{"language":"Solidity"}`))

	c, err := Open(dir)
	require.NoError(t, err)

	_, found, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Put(key, []byte("output")))
	require.NoError(t, c.Close())

	// Reopening sees the earlier write.
	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	value, found, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("output"), value)
}

func TestArtifactCacheKey(t *testing.T) {
	input := []byte("input")
	assert.Equal(t, Key("0.8.26", input), Key("0.8.26", input))
	assert.NotEqual(t, Key("0.8.26", input), Key("0.8.25", input))
	assert.NotEqual(t, Key("0.8.26", input), Key("0.8.26", []byte("other")))
	assert.Len(t, Key("", nil), 32)
}
