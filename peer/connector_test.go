package peer

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	gomock "go.uber.org/mock/gomock"

	"github.com/stretchr/testify/require"

	"github.com/cjgreenaway/rubbem/connection"
	"github.com/cjgreenaway/rubbem/persist"
	"github.com/cjgreenaway/rubbem/persist/mock"
)

func testAddr(port int) *net.TCPAddr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
}

// fakeConn wraps a net.Pipe endpoint so RemoteAddr reports a *net.TCPAddr,
// matching what a real net.TCPConn gives connection.Connection.Run — the
// plain pipe's own pipeAddr would fail that type assertion.
type fakeConn struct {
	net.Conn
	remote *net.TCPAddr
}

func (f fakeConn) RemoteAddr() net.Addr { return f.remote }

// TestConnectorDialsUpToFanout exercises the full Run loop against a fake
// dialer and a mocked KnownNodes store (spec.md §4.G): the connector
// should dial candidates up to targetFanout and keep polling.
func TestConnectorDialsUpToFanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	knownNodes := mock.NewMockKnownNodes(ctrl)

	nodes := []persist.KnownNode{
		{Stream: 1, Addr: testAddr(10001)},
		{Stream: 1, Addr: testAddr(10002)},
		{Stream: 1, Addr: testAddr(10003)},
	}
	call := 0
	knownNodes.EXPECT().PickRandom().DoAndReturn(func() (persist.KnownNode, bool) {
		n := nodes[call%len(nodes)]
		call++
		return n, true
	}).AnyTimes()

	dialed := make(chan string, 10)

	c, err := New(Config{
		KnownNodes: knownNodes,
		Dial: func(_ context.Context, addr *net.TCPAddr) (net.Conn, error) {
			dialed <- addr.String()
			client, server := net.Pipe()
			t.Cleanup(func() { _ = server.Close() })
			go io.Copy(io.Discard, server)
			return fakeConn{Conn: client, remote: addr}, nil
		},
		ConnectionConfig: func(_ *net.TCPAddr) connection.Config { return connection.Config{} },
		TargetFanout:     2,
		PollInterval:     10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = c.Run(ctx)

	require.GreaterOrEqual(t, len(dialed), 2)
}

// TestAcceptableRejectsRecentFailure confirms a dial failure puts an
// address into cooldown so topUp will not immediately re-select it.
func TestAcceptableRejectsRecentFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	knownNodes := mock.NewMockKnownNodes(ctrl)
	knownNodes.EXPECT().PickRandom().Return(persist.KnownNode{}, false).AnyTimes()

	c, err := New(Config{
		KnownNodes: knownNodes,
		Dial: func(_ context.Context, _ *net.TCPAddr) (net.Conn, error) {
			client, _ := net.Pipe()
			return client, nil
		},
		ConnectionConfig: func(_ *net.TCPAddr) connection.Config { return connection.Config{} },
		TargetFanout:     1,
	})
	require.NoError(t, err)

	addr := testAddr(20000)
	require.True(t, c.acceptable(addr))

	c.recentFails.Add(addr.String(), time.Now())
	require.False(t, c.acceptable(addr))
}
