package wire

import (
	"encoding/binary"
	"io"
)

// PutUint32 appends a big-endian uint32 to dst.
func PutUint32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// PutUint64 appends a big-endian uint64 to dst.
func PutUint64(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

// ReadUint32 reads a big-endian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	return readUint32(r)
}

// ReadUint64 reads a big-endian uint64 from r.
func ReadUint64(r io.Reader) (uint64, error) {
	return readUint64(r)
}

// PutVarString appends a variable-length-prefixed byte string to dst. It
// does not bound the length; ReadVarString applies its max on the way back.
func PutVarString(dst []byte, s string) []byte {
	dst = PutVarInt(dst, uint64(len(s)))
	return append(dst, s...)
}

// ReadVarString reads a variable-length-prefixed string, rejecting lengths
// above max.
func ReadVarString(r io.Reader, max uint64) (string, error) {
	n, err := ReadVarInt(r, max)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
