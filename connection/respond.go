package connection

import (
	"net"
	"time"

	"github.com/erigontech/erigon-lib/log/v3"

	"github.com/cjgreenaway/rubbem/message"
	"github.com/cjgreenaway/rubbem/persist"
	"github.com/cjgreenaway/rubbem/pow"
)

// HandshakeConfig is the slice of the configuration surface (spec.md §6)
// Connection.Run needs to synthesize the proactive outbound Version
// frame: protocol version, services, self-connection nonce, user agent,
// and the stream list.
type HandshakeConfig struct {
	ProtocolVersion uint32
	Services        uint64
	Nonce           uint64
	UserAgent       string
	Streams         []uint64
	ListenPort      uint16
}

// GossipPolicy is the extension point spec.md §9 leaves open: what, if
// anything, to proactively gossip once a connection reaches Established.
// The source's Verack handler for this is commented out; FixedGossipPolicy
// is a minimal, explicit realization, not an invented cadence.
type GossipPolicy interface {
	// OnEstablished returns the frames to emit in reply to the first Verack
	// the respond worker receives (spec.md §4.F "Verack" row); it is called
	// at most once per connection. The state worker forwards a Verack only
	// when it follows the peer's Version or arrives once Established, so a
	// peer that sends Verack before Version does not trigger it during the
	// handshake.
	OnEstablished(knownNodes persist.KnownNodes, inventory persist.Inventory) []message.Message
}

// FixedGossipPolicy emits at most one Addr (capped at message.MaxAddrCount)
// and zero or more Inv frames (chunked to message.MaxInvCount) built from
// the current known-nodes and inventory snapshots. The Addr is omitted when
// the snapshot is empty, and no Inv is emitted when the inventory is empty.
type FixedGossipPolicy struct{}

func (FixedGossipPolicy) OnEstablished(knownNodes persist.KnownNodes, inventory persist.Inventory) []message.Message {
	var out []message.Message

	if knownNodes != nil {
		snapshot := knownNodes.Snapshot()
		if len(snapshot) > message.MaxAddrCount {
			snapshot = snapshot[:message.MaxAddrCount]
		}
		if len(snapshot) > 0 {
			entries := make([]message.AddrEntry, len(snapshot))
			for i, n := range snapshot {
				entries[i] = message.AddrEntry{
					LastSeen: n.LastSeen,
					Stream:   n.Stream,
					Services: n.Services,
					Addr:     n.Addr,
				}
			}
			out = append(out, &message.AddrMessage{Entries: entries})
		}
	}

	if inventory != nil {
		hashes := inventory.IterHashes()
		for _, chunk := range message.ChunkHashes(hashes, message.MaxInvCount) {
			out = append(out, &message.InvMessage{Hashes: chunk})
		}
	}

	return out
}

// respondState carries the mutable bits the respond worker's per-command
// handlers need, kept separate from Connection so transition/respond logic
// stays unit-testable without a live socket.
type respondState struct {
	cfg             HandshakeConfig
	peerAddr        *net.TCPAddr
	knownNodes      persist.KnownNodes
	inventory       persist.Inventory
	gossip          GossipPolicy
	powVerify       pow.Config
	establishedOnce bool
	logger          log.Logger
}

func makeVersionMessage(cfg HandshakeConfig, peerAddr *net.TCPAddr, now time.Time) *message.VersionMessage {
	ourAddr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: int(cfg.ListenPort)}
	streams := cfg.Streams
	if len(streams) == 0 {
		streams = []uint64{1}
	}
	return &message.VersionMessage{
		ProtocolVersion: cfg.ProtocolVersion,
		Services:        cfg.Services,
		Timestamp:       now,
		AddrRecv:        peerAddr,
		AddrFrom:        ourAddr,
		Nonce:           cfg.Nonce,
		UserAgent:       cfg.UserAgent,
		Streams:         streams,
	}
}

// handle implements the respond worker's per-command behavior (spec.md
// §4.F "Respond worker"), returning the frames to emit in reply.
func (rs *respondState) handle(frame message.Message) []message.Message {
	switch m := frame.(type) {
	case *message.VersionMessage:
		return []message.Message{&message.VerackMessage{}}

	case *message.VerackMessage:
		if rs.establishedOnce {
			return nil
		}
		rs.establishedOnce = true
		if rs.gossip == nil {
			return nil
		}
		return rs.gossip.OnEstablished(rs.knownNodes, rs.inventory)

	case *message.AddrMessage:
		if rs.knownNodes == nil {
			return nil
		}
		for _, e := range m.Entries {
			_ = rs.knownNodes.Add(e.Stream, e.Services, e.Addr)
		}
		return nil

	case *message.InvMessage:
		if rs.inventory == nil {
			return nil
		}
		var missing []message.InventoryVector
		for _, h := range m.Hashes {
			if !rs.inventory.Contains(h) {
				missing = append(missing, h)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		var out []message.Message
		for _, chunk := range message.ChunkHashes(missing, message.MaxGetDataCount) {
			out = append(out, &message.GetDataMessage{Hashes: chunk})
		}
		return out

	case *message.GetDataMessage:
		if rs.inventory == nil {
			return nil
		}
		getter, ok := rs.inventory.(interface {
			Get(message.InventoryVector) ([]byte, bool)
		})
		if !ok {
			return nil
		}
		var out []message.Message
		for _, h := range m.Hashes {
			raw, ok := getter.Get(h)
			if !ok {
				continue // unknown hashes are silently ignored (spec.md §4.F)
			}
			obj, err := message.DecodeObjectPayload(raw)
			if err != nil {
				continue
			}
			out = append(out, obj)
		}
		return out

	case *message.ObjectMessage:
		if err := pow.Verify(m.Nonce, m.SignedBytes, m.Expiry, rs.powVerify); err != nil {
			if rs.logger != nil {
				rs.logger.Debug("dropping object: proof of work rejected", "err", err)
			}
			return nil
		}
		if rs.inventory != nil {
			hash := message.HashObject(m)
			_ = rs.inventory.Insert(hash, message.EncodeObjectPayload(m))
		}
		return nil

	default:
		return nil
	}
}
