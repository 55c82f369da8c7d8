package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{
		0, 1, 0xfc, 0xfd, 0xfe, 0xffff, 0x10000,
		0xffffffff, 0x100000000, ^uint64(0),
	}
	for _, n := range cases {
		buf := PutVarInt(nil, n)
		got, err := ReadVarInt(bytes.NewReader(buf), ^uint64(0))
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

// TestVarIntShortestForm checks the canonical-shortest-form boundary
// thresholds spec.md §3 names explicitly.
func TestVarIntShortestForm(t *testing.T) {
	cases := []struct {
		n        uint64
		wantLen  int
		wantByte byte
	}{
		{0xfc, 1, 0xfc},
		{0xfd, 3, varIntPrefix16},
		{0xffff, 3, varIntPrefix16},
		{0x10000, 5, varIntPrefix32},
		{0xffffffff, 5, varIntPrefix32},
		{0x100000000, 9, varIntPrefix64},
	}
	for _, c := range cases {
		buf := PutVarInt(nil, c.n)
		require.Lenf(t, buf, c.wantLen, "n=%#x", c.n)
		require.Equal(t, c.wantByte, buf[0])
	}
}

func TestReadVarIntTooLarge(t *testing.T) {
	buf := PutVarInt(nil, 0x10000)
	_, err := ReadVarInt(bytes.NewReader(buf), 0xff)
	require.ErrorIs(t, err, ErrVarIntTooLarge)
}
