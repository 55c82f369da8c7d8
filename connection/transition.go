package connection

import (
	"time"

	"github.com/cjgreenaway/rubbem/message"
)

// Pre-established staleness and post-established idle staleness windows
// (spec.md §4.F, §5 — "Two timeouts only").
const (
	PreEstablishedStaleness = 20 * time.Second
	EstablishedIdleTimeout  = 10 * time.Minute
)

// event is the input to the transition table: either a parsed frame or a
// read failure (spec.md §4.F transition table, §7 propagation policy).
type event struct {
	frame message.Message
	err   error // non-nil: parse error or channel closed
}

// transition applies the handshake transition table (spec.md §4.F) to the
// current state and one event, returning the next state and the frame to
// forward to the respond worker, if any.
func transition(current State, now time.Time, ev event) (next State, forward message.Message) {
	if ev.err != nil {
		return State{Phase: PhaseError}, nil
	}

	switch current.Phase {
	case PhaseFresh:
		switch m := ev.frame.(type) {
		case *message.VersionMessage:
			return State{Phase: PhaseGotVersionAwaitingVerack, EnteredAt: now}, m
		case *message.VerackMessage:
			return State{Phase: PhaseGotVerackAwaitingVersion, EnteredAt: now}, nil
		default:
			return State{Phase: PhaseError}, nil
		}

	case PhaseGotVersionAwaitingVerack:
		if m, ok := ev.frame.(*message.VerackMessage); ok {
			return State{Phase: PhaseEstablished, EnteredAt: now}, m
		}
		return State{Phase: PhaseError}, nil

	case PhaseGotVerackAwaitingVersion:
		if m, ok := ev.frame.(*message.VersionMessage); ok {
			return State{Phase: PhaseEstablished, EnteredAt: now}, m
		}
		return State{Phase: PhaseError}, nil

	case PhaseEstablished:
		return State{Phase: PhaseEstablished, EnteredAt: now}, ev.frame

	default:
		// Stale/Error are terminal; spec.md §8 "State monotonicity" — no
		// further transition is observed once entered.
		return current, nil
	}
}

// stalenessLimit returns the idle window for phase, or 0 if the phase
// carries no timestamp and is therefore exempt from the staleness check
// (spec.md §4.F).
func stalenessLimit(phase Phase) (time.Duration, bool) {
	switch phase {
	case PhaseFresh, PhaseGotVersionAwaitingVerack, PhaseGotVerackAwaitingVersion:
		return PreEstablishedStaleness, true
	case PhaseEstablished:
		return EstablishedIdleTimeout, true
	default:
		return 0, false
	}
}

// checkStaleness returns PhaseStale if s has exceeded its staleness
// window as of now, else s unchanged (spec.md §4.F "Staleness").
func checkStaleness(s State, now time.Time) State {
	limit, ok := stalenessLimit(s.Phase)
	if !ok {
		return s
	}
	if now.Sub(s.EnteredAt) > limit {
		return State{Phase: PhaseStale}
	}
	return s
}
