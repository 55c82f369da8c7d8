package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cjgreenaway/rubbem/message"
)

func TestMemoryInventoryInsertAndGet(t *testing.T) {
	s := NewMemoryInventory()
	hash := message.InventoryVector{1, 2, 3}

	require.False(t, s.Contains(hash))

	require.NoError(t, s.Insert(hash, []byte("hello object body")))
	require.True(t, s.Contains(hash))

	got, ok := s.Get(hash)
	require.True(t, ok)
	require.Equal(t, []byte("hello object body"), got)
}

func TestMemoryInventoryInsertIsIdempotent(t *testing.T) {
	s := NewMemoryInventory()
	hash := message.InventoryVector{9}

	require.NoError(t, s.Insert(hash, []byte("first")))
	require.NoError(t, s.Insert(hash, []byte("second")))

	got, ok := s.Get(hash)
	require.True(t, ok)
	require.Equal(t, []byte("first"), got, "re-inserting an existing hash must be a no-op")
}

func TestMemoryInventoryIterHashes(t *testing.T) {
	s := NewMemoryInventory()
	a := message.InventoryVector{1}
	b := message.InventoryVector{2}

	require.NoError(t, s.Insert(a, []byte("a")))
	require.NoError(t, s.Insert(b, []byte("b")))

	hashes := s.IterHashes()
	require.ElementsMatch(t, []message.InventoryVector{a, b}, hashes)
}

func TestMemoryInventoryGetMissing(t *testing.T) {
	s := NewMemoryInventory()
	_, ok := s.Get(message.InventoryVector{42})
	require.False(t, ok)
}
