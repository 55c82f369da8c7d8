package wire

import (
	"errors"
	"io"
	"net"
)

// ErrBadEndpoint is returned when an on-wire endpoint cannot be decoded into
// a usable socket address.
var ErrBadEndpoint = errors.New("wire: bad endpoint")

var v4InV6Prefix = [12]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

// PutEndpoint appends the 16-byte IPv4-mapped-into-::ffff:0:0/96 address
// followed by the 2-byte big-endian port.
func PutEndpoint(dst []byte, addr *net.TCPAddr) []byte {
	ip4 := addr.IP.To4()
	if ip4 != nil {
		dst = append(dst, v4InV6Prefix[:]...)
		dst = append(dst, ip4...)
	} else {
		ip16 := addr.IP.To16()
		if ip16 == nil {
			ip16 = make(net.IP, 16)
		}
		dst = append(dst, ip16...)
	}
	return appendUint16(dst, uint16(addr.Port))
}

// ReadEndpoint reads a 16-byte address plus 2-byte port, validating the
// result is a usable unicast address. Callers that must tolerate malformed
// endpoints (addr records, §4.B) should treat ErrBadEndpoint as "drop this
// record" rather than a fatal parse error.
func ReadEndpoint(r io.Reader) (*net.TCPAddr, error) {
	var ipBuf [16]byte
	if _, err := io.ReadFull(r, ipBuf[:]); err != nil {
		return nil, err
	}
	port, err := readUint16(r)
	if err != nil {
		return nil, err
	}

	ip := net.IP(append([]byte(nil), ipBuf[:]...))
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}

	if ip.IsUnspecified() || ip.IsMulticast() || port == 0 {
		return nil, ErrBadEndpoint
	}

	return &net.TCPAddr{IP: ip, Port: int(port)}, nil
}
