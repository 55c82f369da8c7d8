// Package wire implements the primitive encodings shared by every message
// body: variable-length integers, fixed-width big-endian integers,
// timestamps, and addressed endpoints.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrVarIntTooLarge is returned when a decoded variable-length integer
// exceeds the caller-supplied maximum.
var ErrVarIntTooLarge = errors.New("wire: varint exceeds maximum")

const (
	varIntPrefix16 = 0xfd
	varIntPrefix32 = 0xfe
	varIntPrefix64 = 0xff

	varIntThreshold = 0xfd
)

// PutVarInt appends the canonical (shortest) variable-length encoding of n
// to dst and returns the result.
func PutVarInt(dst []byte, n uint64) []byte {
	switch {
	case n < varIntThreshold:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, varIntPrefix16)
		return appendUint16(dst, uint16(n))
	case n <= 0xffffffff:
		dst = append(dst, varIntPrefix32)
		return appendUint32(dst, uint32(n))
	default:
		dst = append(dst, varIntPrefix64)
		return appendUint64(dst, n)
	}
}

// ReadVarInt reads a variable-length integer from r, failing with
// ErrVarIntTooLarge if the decoded value exceeds max.
func ReadVarInt(r io.Reader, max uint64) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	var n uint64
	switch prefix[0] {
	case varIntPrefix16:
		v, err := readUint16(r)
		if err != nil {
			return 0, err
		}
		n = uint64(v)
	case varIntPrefix32:
		v, err := readUint32(r)
		if err != nil {
			return 0, err
		}
		n = uint64(v)
	case varIntPrefix64:
		v, err := readUint64(r)
		if err != nil {
			return 0, err
		}
		n = v
	default:
		n = uint64(prefix[0])
	}

	if n > max {
		return 0, ErrVarIntTooLarge
	}
	return n, nil
}

func appendUint16(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

func appendUint32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

func appendUint64(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
