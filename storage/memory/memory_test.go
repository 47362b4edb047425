package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/wardkeep/storage"
)

func TestMedium_SetGet(t *testing.T) {
	m := New()

	require.NoError(t, m.Set("a", "1"))

	v, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMedium_Delete(t *testing.T) {
	m := New()

	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Delete("a"))

	_, err := m.Get("a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, m.Delete("a"))
}

func TestMedium_KeysAndClear(t *testing.T) {
	m := New()

	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))

	keys, err := m.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, m.Clear())

	keys, err = m.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMedium_LastWriterWins(t *testing.T) {
	m := New()

	require.NoError(t, m.Set("a", "first"))
	require.NoError(t, m.Set("a", "second"))

	v, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}
