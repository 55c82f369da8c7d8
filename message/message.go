// Package message implements the wire codec: the outer frame envelope and
// the six command bodies that ride inside it (version, verack, addr, inv,
// getdata, object).
package message

import "errors"

// Bounds from §6/§4.B of the protocol.
const (
	MaxAddrCount        = 1000
	MaxInvCount         = 50000
	MaxGetDataCount     = 50000
	MaxUserAgentLen     = 5000
	MaxPayloadLen       = 1 << 20 // non-object commands
	MaxObjectPayloadLen = 1 << 18 // object command
)

// Parse errors, grouped by §7's taxonomy.
var (
	// Frame errors.
	ErrBadMagic       = errors.New("message: bad magic")
	ErrShortRead      = errors.New("message: short read")
	ErrPayloadTooBig  = errors.New("message: payload too big")
	ErrBadChecksum    = errors.New("message: bad checksum")
	ErrUnknownCommand = errors.New("message: unknown command")

	// Body errors.
	ErrTrailingBytes      = errors.New("message: trailing bytes after body")
	ErrUnknownObjectType  = errors.New("message: unknown object type")
	ErrUnknownObjectVer   = errors.New("message: unknown object version")
	ErrStreamCountTooHigh = errors.New("message: too many streams")

	// PoW error kinds (spec.md §7). Object decode does not return these:
	// it checks wire structure only, and the respond worker reports PoW
	// failures through pow.Verify's own errors, dropping the object without
	// ending the connection.
	ErrObjectExpired     = errors.New("message: object expired")
	ErrObjectLivesTooLong = errors.New("message: object lives too long")
	ErrUnacceptablePow   = errors.New("message: unacceptable proof of work")
)

// Message is the closed sum over the six application-level variants
// (spec.md §3). Each concrete type implements Command and knows how to
// encode its own payload; Read dispatches on the frame's command field.
type Message interface {
	Command() string
	encodePayload() []byte
}

// Weight returns the byte size of m's encoded payload — the unit the
// state→respond bounded channel uses for backpressure (spec.md §4.F, §4.H).
func Weight(m Message) int {
	return len(m.encodePayload())
}
