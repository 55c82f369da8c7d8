package message

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
)

// Magic identifies frames belonging to this overlay. Distinct from the
// public Bitmessage magic so this implementation cannot be mistaken for an
// interoperable peer of the real network.
var Magic = [4]byte{0xf9, 0xbe, 0xb5, 0xd5}

const commandFieldLen = 12

// ParseError wraps a frame/body decode failure with the command that
// produced it, so the state worker can log a reason category (spec.md §7)
// without re-deriving it from the bare error value.
type ParseError struct {
	Command string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Command == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("message %s: %v", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(command string, err error) error {
	return &ParseError{Command: command, Err: err}
}

func checksum(payload []byte) [4]byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:4])
	return out
}

func payloadLimit(command string) uint32 {
	if command == "object" {
		return MaxObjectPayloadLen
	}
	return MaxPayloadLen
}

func encodeCommand(command string) [commandFieldLen]byte {
	var buf [commandFieldLen]byte
	copy(buf[:], command)
	return buf
}

func decodeCommand(buf [commandFieldLen]byte) string {
	n := bytes.IndexByte(buf[:], 0)
	if n < 0 {
		n = commandFieldLen
	}
	return string(buf[:n])
}

// Write encodes m as a complete frame (magic, command, length, checksum,
// payload) to w.
func Write(w io.Writer, m Message) error {
	payload := m.encodePayload()
	command := m.Command()

	var header bytes.Buffer
	header.Write(Magic[:])
	cmdBuf := encodeCommand(command)
	header.Write(cmdBuf[:])

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	header.Write(lenBuf[:])

	sum := checksum(payload)
	header.Write(sum[:])

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// Read decodes one complete frame from r and dispatches to the matching
// per-command body decoder.
func Read(r io.Reader) (Message, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, parseErr("", fmt.Errorf("%w: %v", ErrShortRead, err))
	}
	if magic != Magic {
		return nil, parseErr("", ErrBadMagic)
	}

	var cmdBuf [commandFieldLen]byte
	if _, err := io.ReadFull(r, cmdBuf[:]); err != nil {
		return nil, parseErr("", fmt.Errorf("%w: %v", ErrShortRead, err))
	}
	command := decodeCommand(cmdBuf)

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, parseErr(command, fmt.Errorf("%w: %v", ErrShortRead, err))
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > payloadLimit(command) {
		return nil, parseErr(command, ErrPayloadTooBig)
	}

	var wantSum [4]byte
	if _, err := io.ReadFull(r, wantSum[:]); err != nil {
		return nil, parseErr(command, fmt.Errorf("%w: %v", ErrShortRead, err))
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, parseErr(command, fmt.Errorf("%w: %v", ErrShortRead, err))
	}

	if gotSum := checksum(payload); gotSum != wantSum {
		return nil, parseErr(command, ErrBadChecksum)
	}

	m, err := decodeBody(command, payload)
	if err != nil {
		return nil, parseErr(command, err)
	}
	return m, nil
}

func decodeBody(command string, payload []byte) (Message, error) {
	switch command {
	case "version":
		return readVersion(payload)
	case "verack":
		return readVerack(payload)
	case "addr":
		return readAddr(payload)
	case "inv":
		return readInv(payload)
	case "getdata":
		return readGetData(payload)
	case "object":
		return readObject(payload)
	default:
		return nil, ErrUnknownCommand
	}
}

func checkNoMoreData(r *bytes.Reader) error {
	if r.Len() != 0 {
		return ErrTrailingBytes
	}
	return nil
}
