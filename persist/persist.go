// Package persist declares the two persistence contracts the core
// consumes (spec.md §1 "Out of scope", §6 "Persistence boundary"): a
// known-nodes store and an inventory store. The core treats both as
// external collaborators — it never mandates an on-disk format. Concrete
// implementations live in package store; tests may substitute
// hand-written fakes built with go.uber.org/mock.
package persist

import (
	"net"
	"time"

	"github.com/cjgreenaway/rubbem/message"
)

// KnownNode is a peer record as owned by the persister (spec.md §3). The
// core only ever holds read-only snapshots of these.
type KnownNode struct {
	LastSeen time.Time
	Stream   uint32
	Services uint64
	Addr     *net.TCPAddr
}

// KnownNodes is the typed accessor the core requires over the external
// known-nodes persister (spec.md §4.D).
type KnownNodes interface {
	// Len reports the current number of known nodes.
	Len() int
	// PickRandom returns a uniformly random node from the current
	// snapshot. ok is false when the store is empty.
	PickRandom() (node KnownNode, ok bool)
	// Add resolves addr and stores a fresh KnownNode with LastSeen set to
	// now.
	Add(stream uint32, services uint64, addr *net.TCPAddr) error
	// Snapshot returns every currently known node, for gossip fan-out
	// (spec.md §4.F "Verack" extension point).
	Snapshot() []KnownNode
}

// Inventory is the typed, content-addressed accessor the core requires
// over the external inventory persister (spec.md §4.E).
type Inventory interface {
	// Contains reports whether hash is already held.
	Contains(hash message.InventoryVector) bool
	// Insert stores objectBytes under hash. Re-inserting an existing hash
	// is a no-op.
	Insert(hash message.InventoryVector, objectBytes []byte) error
	// IterHashes returns every hash currently held, for building outbound
	// Inv frames (spec.md §4.F "Verack" extension point).
	IterHashes() []message.InventoryVector
}
