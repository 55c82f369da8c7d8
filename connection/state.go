// Package connection implements the per-peer four-worker pipeline
// (spec.md §4.F): read, state, respond, write, cooperating over typed
// channels and a single-writer/multi-reader state cell.
package connection

import (
	"sync/atomic"
	"time"
)

// Phase is the tag half of ConnectionState (spec.md §3). The entry
// timestamp travels alongside it in stateValue rather than as a
// Timespec-carrying enum payload — the lock-free substitute spec.md §9
// sanctions in place of the source's RWLock<ConnectionState>.
type Phase uint8

const (
	PhaseFresh Phase = iota
	PhaseGotVersionAwaitingVerack
	PhaseGotVerackAwaitingVersion
	PhaseEstablished
	PhaseStale
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseFresh:
		return "Fresh"
	case PhaseGotVersionAwaitingVerack:
		return "GotVersionAwaitingVerack"
	case PhaseGotVerackAwaitingVersion:
		return "GotVerackAwaitingVersion"
	case PhaseEstablished:
		return "Established"
	case PhaseStale:
		return "Stale"
	case PhaseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// State is a snapshot of ConnectionState: phase plus the timestamp the
// phase was entered. Stale and Error carry no timestamp in spec.md §3
// ("only if the state still carries a timestamp"); EnteredAt is the zero
// Time for those two.
type State struct {
	Phase     Phase
	EnteredAt time.Time
}

// HasTimestamp reports whether the staleness predicate applies to this
// state (spec.md §3, §4.F).
func (s State) HasTimestamp() bool {
	switch s.Phase {
	case PhaseStale, PhaseError:
		return false
	default:
		return true
	}
}

// cell is the single-writer/multi-reader state holder. The writer is
// always the state worker goroutine; the owning Connection and any status
// query may read concurrently. atomic.Value gives the "total order of
// writes, consistent with the state worker's own execution" spec.md §5
// requires without the RWLock the source uses.
type cell struct {
	v atomic.Value // stores State
}

func newCell(initial State) *cell {
	c := &cell{}
	c.v.Store(initial)
	return c
}

func (c *cell) Get() State {
	return c.v.Load().(State)
}

func (c *cell) Set(s State) {
	c.v.Store(s)
}
