package store

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryKnownNodesAddAndPick(t *testing.T) {
	s := NewMemoryKnownNodes()
	require.Equal(t, 0, s.Len())

	addr := &net.TCPAddr{IP: net.IPv4(1, 2, 3, 4), Port: 8444}
	require.NoError(t, s.Add(1, 7, addr))
	require.Equal(t, 1, s.Len())

	node, ok := s.PickRandom()
	require.True(t, ok)
	require.Equal(t, uint32(1), node.Stream)
	require.Equal(t, uint64(7), node.Services)
	require.True(t, node.Addr.IP.Equal(addr.IP))
}

func TestMemoryKnownNodesPickRandomEmpty(t *testing.T) {
	s := NewMemoryKnownNodes()
	_, ok := s.PickRandom()
	require.False(t, ok)
}

func TestMemoryKnownNodesEviction(t *testing.T) {
	s := NewMemoryKnownNodes()
	for i := 0; i < MaxKnownNodes+10; i++ {
		addr := &net.TCPAddr{IP: net.IPv4(10, 0, byte(i>>8), byte(i)), Port: 8444}
		require.NoError(t, s.Add(1, 0, addr))
	}
	require.Equal(t, MaxKnownNodes, s.Len())
}

func TestMemoryKnownNodesSnapshot(t *testing.T) {
	s := NewMemoryKnownNodes()
	require.NoError(t, s.Add(1, 0, &net.TCPAddr{IP: net.IPv4(1, 1, 1, 1), Port: 1}))
	require.NoError(t, s.Add(2, 0, &net.TCPAddr{IP: net.IPv4(2, 2, 2, 2), Port: 2}))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
}
