// Package store ships reference, in-memory implementations of the two
// persistence contracts declared in package persist (spec.md §4.D, §4.E).
// The on-disk format is intentionally out of scope (spec.md §1); these
// types exist so the node can run standalone and so tests have a real,
// concurrency-safe double to exercise alongside hand-written mocks.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/cjgreenaway/rubbem/persist"
)

// MaxKnownNodes bounds the in-memory store so a long-running node does not
// accumulate an unbounded address book; the oldest entries (by LastSeen)
// are evicted first. The spec does not mandate a cap — this is the
// reference implementation's own housekeeping, not a protocol rule.
const MaxKnownNodes = 20000

type knownNodeItem struct {
	key      string // host:port, the btree ordering tiebreaker
	lastSeen time.Time
	node     persist.KnownNode
}

func lessByLastSeen(a, b knownNodeItem) bool {
	if a.lastSeen.Equal(b.lastSeen) {
		return a.key < b.key
	}
	return a.lastSeen.Before(b.lastSeen)
}

// MemoryKnownNodes is a btree-indexed, mutex-guarded KnownNodes store
// (spec.md §4.D, §3 "Ownership" — "the persister is shared across all
// connections; it is the only process-wide mutable state and serializes
// all reads/writes internally"). The btree orders entries by LastSeen so
// eviction under MaxKnownNodes always drops the stalest record first —
// google/btree is the teacher's own dependency, used here the way it is
// used throughout the corpus: an ordered index over a mutable working set.
type MemoryKnownNodes struct {
	mu       sync.RWMutex
	byKey    map[string]knownNodeItem
	byTime   *btree.BTreeG[knownNodeItem]
	resolver func(network, address string) (*net.TCPAddr, error)
}

// NewMemoryKnownNodes constructs an empty store.
func NewMemoryKnownNodes() *MemoryKnownNodes {
	return &MemoryKnownNodes{
		byKey:    make(map[string]knownNodeItem),
		byTime:   btree.NewG(32, lessByLastSeen),
		resolver: net.ResolveTCPAddr,
	}
}

func (s *MemoryKnownNodes) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// PickRandom draws uniformly from the current snapshot using a
// cryptographically seeded RNG (spec.md §4.D).
func (s *MemoryKnownNodes) PickRandom() (persist.KnownNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.byKey)
	if n == 0 {
		return persist.KnownNode{}, false
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return persist.KnownNode{}, false
	}
	target := idx.Int64()

	var i int64
	for _, item := range s.byKey {
		if i == target {
			return item.node, true
		}
		i++
	}
	return persist.KnownNode{}, false
}

// Add resolves addr and stores a fresh KnownNode with LastSeen = now
// (spec.md §4.D). addr is already a resolved *net.TCPAddr in this core's
// usage, so resolution is a pass-through validating no-op; the resolver
// hook exists for tests and for the hostname-accepting CLI config path
// (bootstrap_nodes, spec.md §6) where a DNS name may still need resolving.
func (s *MemoryKnownNodes) Add(stream uint32, services uint64, addr *net.TCPAddr) error {
	if addr == nil {
		return errors.New("store: nil address")
	}

	now := time.Now()
	key := addr.String()
	item := knownNodeItem{
		key:      key,
		lastSeen: now,
		node: persist.KnownNode{
			LastSeen: now,
			Stream:   stream,
			Services: services,
			Addr:     addr,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byKey[key]; ok {
		s.byTime.Delete(old)
	}
	s.byKey[key] = item
	s.byTime.ReplaceOrInsert(item)

	s.evictLocked()
	return nil
}

// AddHostPort resolves a "host:port" string before storing it, for
// bootstrap_nodes entries that may name a host by DNS rather than IP
// (spec.md §6 configuration surface).
func (s *MemoryKnownNodes) AddHostPort(stream uint32, services uint64, hostPort string) error {
	addr, err := s.resolver("tcp", hostPort)
	if err != nil {
		return fmt.Errorf("store: resolve %q: %w", hostPort, err)
	}
	return s.Add(stream, services, addr)
}

func (s *MemoryKnownNodes) Snapshot() []persist.KnownNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persist.KnownNode, 0, len(s.byKey))
	for _, item := range s.byKey {
		out = append(out, item.node)
	}
	return out
}

// evictLocked drops the oldest entries once the store exceeds
// MaxKnownNodes. Caller must hold s.mu for writing.
func (s *MemoryKnownNodes) evictLocked() {
	for len(s.byKey) > MaxKnownNodes {
		oldest, ok := s.byTime.Min()
		if !ok {
			return
		}
		s.byTime.Delete(oldest)
		delete(s.byKey, oldest.key)
	}
}

var _ persist.KnownNodes = (*MemoryKnownNodes)(nil)
