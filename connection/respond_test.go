package connection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cjgreenaway/rubbem/message"
	"github.com/cjgreenaway/rubbem/persist"
	"github.com/cjgreenaway/rubbem/pow"
)

// TestRespondDropsExpiredObject is spec.md §8 scenario 7: an object whose
// expiry is too far in the past is dropped without tearing down the
// connection — handle simply returns no frames to emit.
func TestRespondDropsExpiredObject(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	rs := &respondState{
		powVerify: pow.VerifyConfig(clock),
	}

	expired := &message.ObjectMessage{
		Nonce:       0,
		Expiry:      now.Add(-(pow.ObjectExpiryCutoff + time.Hour)),
		SignedBytes: []byte("body"),
	}

	out := rs.handle(expired)
	require.Empty(t, out)
}

// TestRespondHandshake mirrors scenarios 3/4: a Version is answered with a
// Verack, and the first Verack after Established triggers the gossip
// policy exactly once.
func TestRespondHandshake(t *testing.T) {
	rs := &respondState{}

	out := rs.handle(&message.VersionMessage{})
	require.Len(t, out, 1)
	_, ok := out[0].(*message.VerackMessage)
	require.True(t, ok)

	gossip := &countingGossip{}
	rs.gossip = gossip

	out = rs.handle(&message.VerackMessage{})
	require.Equal(t, 1, gossip.calls)
	require.NotNil(t, out)

	out = rs.handle(&message.VerackMessage{})
	require.Equal(t, 1, gossip.calls, "gossip fires only once per connection")
	require.Empty(t, out)
}

type countingGossip struct{ calls int }

func (g *countingGossip) OnEstablished(persist.KnownNodes, persist.Inventory) []message.Message {
	g.calls++
	return []message.Message{&message.VerackMessage{}}
}
