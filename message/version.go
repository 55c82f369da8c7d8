package message

import (
	"bytes"
	"net"
	"time"

	"github.com/cjgreenaway/rubbem/internal/wire"
)

// VersionMessage is the peer's initial handshake announcement
// (spec.md §3, §4.B).
type VersionMessage struct {
	ProtocolVersion uint32
	Services        uint64
	Timestamp       time.Time
	AddrRecv        *net.TCPAddr
	AddrFrom        *net.TCPAddr
	Nonce           uint64
	UserAgent       string
	Streams         []uint64
}

func (m *VersionMessage) Command() string { return "version" }

func (m *VersionMessage) encodePayload() []byte {
	var buf []byte
	buf = wire.PutUint32(buf, m.ProtocolVersion)
	buf = wire.PutUint64(buf, m.Services)
	buf = wire.PutTimestamp(buf, m.Timestamp)
	buf = wire.PutEndpoint(buf, m.AddrRecv)
	buf = wire.PutEndpoint(buf, m.AddrFrom)
	buf = wire.PutUint64(buf, m.Nonce)
	buf = wire.PutVarString(buf, capUserAgent(m.UserAgent))
	buf = wire.PutVarInt(buf, uint64(len(m.Streams)))
	for _, s := range m.Streams {
		buf = wire.PutVarInt(buf, s)
	}
	return buf
}

func capUserAgent(s string) string {
	if len(s) > MaxUserAgentLen {
		return s[:MaxUserAgentLen]
	}
	return s
}

func readVersion(payload []byte) (Message, error) {
	r := bytes.NewReader(payload)

	protocolVersion, err := wire.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	services, err := wire.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	timestamp, err := wire.ReadTimestamp(r)
	if err != nil {
		return nil, err
	}
	addrRecv, err := wire.ReadEndpoint(r)
	if err != nil {
		return nil, err
	}
	addrFrom, err := wire.ReadEndpoint(r)
	if err != nil {
		return nil, err
	}
	nonce, err := wire.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	userAgent, err := wire.ReadVarString(r, MaxUserAgentLen)
	if err != nil {
		return nil, err
	}
	streamCount, err := wire.ReadVarInt(r, 160000)
	if err != nil {
		return nil, ErrStreamCountTooHigh
	}
	streams := make([]uint64, 0, streamCount)
	for i := uint64(0); i < streamCount; i++ {
		s, err := wire.ReadVarInt(r, ^uint64(0))
		if err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}

	if err := checkNoMoreData(r); err != nil {
		return nil, err
	}

	return &VersionMessage{
		ProtocolVersion: protocolVersion,
		Services:        services,
		Timestamp:       timestamp,
		AddrRecv:        addrRecv,
		AddrFrom:        addrFrom,
		Nonce:           nonce,
		UserAgent:       userAgent,
		Streams:         streams,
	}, nil
}
