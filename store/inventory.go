package store

import (
	"sync"

	"github.com/golang/snappy"

	"github.com/cjgreenaway/rubbem/message"
	"github.com/cjgreenaway/rubbem/persist"
)

// MemoryInventory is a content-addressed, mutex-guarded Inventory store
// (spec.md §4.E). Object bytes are snappy-compressed before storage —
// golang/snappy is the teacher's own dependency, and objects are exactly
// the "orders of magnitude" variable-size payloads it is suited for
// (spec.md §9's rationale for byte-weighted flow control applies equally
// to storage footprint).
type MemoryInventory struct {
	mu   sync.RWMutex
	data map[message.InventoryVector][]byte
}

// NewMemoryInventory constructs an empty inventory store.
func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{data: make(map[message.InventoryVector][]byte)}
}

func (s *MemoryInventory) Contains(hash message.InventoryVector) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[hash]
	return ok
}

func (s *MemoryInventory) Insert(hash message.InventoryVector, objectBytes []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[hash]; ok {
		return nil
	}
	s.data[hash] = snappy.Encode(nil, objectBytes)
	return nil
}

// Get returns the decompressed object bytes for hash, if held.
func (s *MemoryInventory) Get(hash message.InventoryVector) ([]byte, bool) {
	s.mu.RLock()
	compressed, ok := s.data[hash]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	decoded, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func (s *MemoryInventory) IterHashes() []message.InventoryVector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]message.InventoryVector, 0, len(s.data))
	for h := range s.data {
		out = append(out, h)
	}
	return out
}

var _ persist.Inventory = (*MemoryInventory)(nil)
