package connection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cjgreenaway/rubbem/message"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// TestHandshakeA is spec.md §8 scenario 3: peer sends Verack then Version.
func TestHandshakeA(t *testing.T) {
	s := State{Phase: PhaseFresh, EnteredAt: epoch}

	s, forward := transition(s, epoch, event{frame: &message.VerackMessage{}})
	require.Equal(t, PhaseGotVerackAwaitingVersion, s.Phase)
	require.Nil(t, forward)

	version := &message.VersionMessage{ProtocolVersion: 3}
	s, forward = transition(s, epoch, event{frame: version})
	require.Equal(t, PhaseEstablished, s.Phase)
	require.Equal(t, message.Message(version), forward)
}

// TestHandshakeB is spec.md §8 scenario 4: peer sends Version then Verack.
func TestHandshakeB(t *testing.T) {
	s := State{Phase: PhaseFresh, EnteredAt: epoch}

	version := &message.VersionMessage{ProtocolVersion: 3}
	s, forward := transition(s, epoch, event{frame: version})
	require.Equal(t, PhaseGotVersionAwaitingVerack, s.Phase)
	require.Equal(t, message.Message(version), forward)

	verack := &message.VerackMessage{}
	s, forward = transition(s, epoch, event{frame: verack})
	require.Equal(t, PhaseEstablished, s.Phase)
	require.Equal(t, message.Message(verack), forward)
}

// TestUnexpectedFirstFrame is spec.md §8 scenario 5: an Inv before any
// handshake frame drives the connection to Error.
func TestUnexpectedFirstFrame(t *testing.T) {
	s := State{Phase: PhaseFresh, EnteredAt: epoch}

	s, forward := transition(s, epoch, event{frame: &message.InvMessage{}})
	require.Equal(t, PhaseError, s.Phase)
	require.Nil(t, forward)
}

// TestStaleness is spec.md §8 scenario 6: no activity for 20s in a
// pre-established phase marks the connection Stale.
func TestStaleness(t *testing.T) {
	s := State{Phase: PhaseFresh, EnteredAt: epoch}

	stillFresh := checkStaleness(s, epoch.Add(19*time.Second))
	require.Equal(t, PhaseFresh, stillFresh.Phase)

	stale := checkStaleness(s, epoch.Add(21*time.Second))
	require.Equal(t, PhaseStale, stale.Phase)
}

// TestEstablishedIdleTimeout verifies the longer, post-handshake idle
// window applies once Established (spec.md §4.F).
func TestEstablishedIdleTimeout(t *testing.T) {
	s := State{Phase: PhaseEstablished, EnteredAt: epoch}

	stillUp := checkStaleness(s, epoch.Add(9*time.Minute))
	require.Equal(t, PhaseEstablished, stillUp.Phase)

	stale := checkStaleness(s, epoch.Add(11*time.Minute))
	require.Equal(t, PhaseStale, stale.Phase)
}

// TestStateMonotonicity is spec.md §8's property: once Error or Stale,
// no further transition is observed.
func TestStateMonotonicity(t *testing.T) {
	errored := State{Phase: PhaseError}
	next, forward := transition(errored, epoch, event{frame: &message.VersionMessage{}})
	require.Equal(t, PhaseError, next.Phase)
	require.Nil(t, forward)

	stale := State{Phase: PhaseStale}
	next, forward = transition(stale, epoch, event{frame: &message.VerackMessage{}})
	require.Equal(t, PhaseStale, next.Phase)
	require.Nil(t, forward)
}

// TestReadErrorDrivesError confirms a read-worker error (nil frame, non-nil
// err) transitions to Error regardless of current phase.
func TestReadErrorDrivesError(t *testing.T) {
	s := State{Phase: PhaseEstablished, EnteredAt: epoch}
	next, forward := transition(s, epoch, event{err: errConnectionProtocolError})
	require.Equal(t, PhaseError, next.Phase)
	require.Nil(t, forward)
}
