package message

import (
	"bytes"
	"net"
	"time"

	"github.com/cjgreenaway/rubbem/internal/wire"
)

// AddrEntry is one gossiped peer record: last-seen time, stream, services
// bitfield, and socket endpoint (spec.md §3 KnownNode, as carried on the
// wire — the store package owns the persisted KnownNode type and converts
// to/from this wire shape).
type AddrEntry struct {
	LastSeen time.Time
	Stream   uint32
	Services uint64
	Addr     *net.TCPAddr
}

// AddrMessage gossips a bounded batch of peer records (spec.md §4.B).
type AddrMessage struct {
	Entries []AddrEntry
}

func (m *AddrMessage) Command() string { return "addr" }

func (m *AddrMessage) encodePayload() []byte {
	var buf []byte
	buf = wire.PutVarInt(buf, uint64(len(m.Entries)))
	for _, e := range m.Entries {
		buf = wire.PutTimestamp(buf, e.LastSeen)
		buf = wire.PutUint32(buf, e.Stream)
		buf = wire.PutUint64(buf, e.Services)
		buf = wire.PutEndpoint(buf, e.Addr)
	}
	return buf
}

// readAddr decodes a batch of records, silently dropping any record whose
// endpoint fails validation (spec.md §4.B: "Parser silently drops records
// that fail endpoint validation").
func readAddr(payload []byte) (Message, error) {
	r := bytes.NewReader(payload)

	count, err := wire.ReadVarInt(r, MaxAddrCount)
	if err != nil {
		return nil, err
	}

	entries := make([]AddrEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		lastSeen, err := wire.ReadTimestamp(r)
		if err != nil {
			return nil, err
		}
		stream, err := wire.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		services, err := wire.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		addr, err := wire.ReadEndpoint(r)
		if err != nil {
			if err == wire.ErrBadEndpoint {
				continue
			}
			return nil, err
		}

		entries = append(entries, AddrEntry{
			LastSeen: lastSeen,
			Stream:   stream,
			Services: services,
			Addr:     addr,
		})
	}

	if err := checkNoMoreData(r); err != nil {
		return nil, err
	}

	return &AddrMessage{Entries: entries}, nil
}
