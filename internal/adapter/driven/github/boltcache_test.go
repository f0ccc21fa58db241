package github

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltCache_SetGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := OpenBoltCache(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("https://api.github.com/repos/a/b", []byte("HTTP/1.1 200 OK\r\n\r\n"))
	got, ok := cache.Get("https://api.github.com/repos/a/b")
	require.True(t, ok)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", string(got))

	cache.Delete("https://api.github.com/repos/a/b")
	_, ok = cache.Get("https://api.github.com/repos/a/b")
	assert.False(t, ok)
}

func TestBoltCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	cache, err := OpenBoltCache(path)
	require.NoError(t, err)
	cache.Set("k", []byte("v"))
	require.NoError(t, cache.Close())

	reopened, err := OpenBoltCache(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, ok := reopened.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))
}

func TestNewClient_UsesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := OpenBoltCache(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	client := NewClient("", cache)
	assert.NotNil(t, client)
	assert.Equal(t, "https://api.github.com/graphql", client.graphqlURL)
}
