package wire

import (
	"io"
	"time"
)

// PutTimestamp appends t as signed 64-bit seconds since the Unix epoch.
func PutTimestamp(dst []byte, t time.Time) []byte {
	return PutUint64(dst, uint64(t.Unix()))
}

// ReadTimestamp reads a signed 64-bit seconds-since-epoch timestamp.
func ReadTimestamp(r io.Reader) (time.Time, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(v), 0).UTC(), nil
}
