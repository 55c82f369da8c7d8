package message

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestAddrEncodeLiteral replays the literal byte vector from spec.md §8
// scenario 1.
func TestAddrEncodeLiteral(t *testing.T) {
	msg := &AddrMessage{Entries: []AddrEntry{
		{
			LastSeen: time.Unix(1, 0),
			Stream:   2,
			Services: 3,
			Addr:     &net.TCPAddr{IP: net.IPv4(12, 13, 14, 15), Port: 1617},
		},
		{
			LastSeen: time.Unix(4, 0),
			Stream:   5,
			Services: 6,
			Addr:     &net.TCPAddr{IP: net.IPv4(22, 23, 24, 25), Port: 2627},
		},
	}}

	got := msg.encodePayload()

	want := []byte{0x02}
	want = append(want, 0, 0, 0, 0, 0, 0, 0, 1) // ts=1
	want = append(want, 0, 0, 0, 2)             // stream=2
	want = append(want, 0, 0, 0, 0, 0, 0, 0, 3)  // services=3
	want = append(want, v4InV6Bytes(12, 13, 14, 15)...)
	want = append(want, 0x06, 0x51) // port 1617

	want = append(want, 0, 0, 0, 0, 0, 0, 0, 4)
	want = append(want, 0, 0, 0, 5)
	want = append(want, 0, 0, 0, 0, 0, 0, 0, 6)
	want = append(want, v4InV6Bytes(22, 23, 24, 25)...)
	want = append(want, 0x0A, 0x43) // port 2627

	require.Equal(t, want, got)
}

// TestAddrRoundTrip confirms decode(encode(m)) restores the two nodes.
func TestAddrRoundTrip(t *testing.T) {
	msg := &AddrMessage{Entries: []AddrEntry{
		{
			LastSeen: time.Unix(1, 0),
			Stream:   2,
			Services: 3,
			Addr:     &net.TCPAddr{IP: net.IPv4(12, 13, 14, 15), Port: 1617},
		},
		{
			LastSeen: time.Unix(4, 0),
			Stream:   5,
			Services: 6,
			Addr:     &net.TCPAddr{IP: net.IPv4(22, 23, 24, 25), Port: 2627},
		},
	}}

	decoded, err := readAddr(msg.encodePayload())
	require.NoError(t, err)

	got, ok := decoded.(*AddrMessage)
	require.True(t, ok)
	require.Len(t, got.Entries, 2)

	for i, e := range got.Entries {
		want := msg.Entries[i]
		require.True(t, want.LastSeen.Equal(e.LastSeen))
		require.Equal(t, want.Stream, e.Stream)
		require.Equal(t, want.Services, e.Services)
		require.True(t, want.Addr.IP.Equal(e.Addr.IP))
		require.Equal(t, want.Addr.Port, e.Addr.Port)
	}
}

func v4InV6Bytes(a, b, c, d byte) []byte {
	out := make([]byte, 16)
	out[10] = 0xff
	out[11] = 0xff
	out[12] = a
	out[13] = b
	out[14] = c
	out[15] = d
	return out
}
