// Package peer owns the outer control loop (spec.md §4.G): maintaining a
// target fanout of connections by picking random known nodes, spawning
// connections, and evicting/replacing any that go Stale or Error. The
// connector is unaware of message semantics — that is entirely the
// connection package's job.
package peer

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/erigontech/erigon-lib/log/v3"
	"github.com/erigontech/erigon-p2p/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/cjgreenaway/rubbem/connection"
	"github.com/cjgreenaway/rubbem/persist"
)

// RetryDelay is the nominal reconnection delay (spec.md §9 Open Question
// resolution: "a simple bounded-delay retry is acceptable"). Connector does
// not read it: a freed slot is refilled on the next poll tick, and an
// address whose dial or connection failed is skipped for
// recentFailureCooldown.
const RetryDelay = 5 * time.Second

// recentFailureCacheSize bounds the dial-failure memo, mirroring the
// teacher's own bounded-unsolicited-node cache sizing rather than
// inventing a number from nothing (p2p/discover/v4_udp.go's
// unsolicitedNodes/unknownKeys caches).
const recentFailureCacheSize = 500

// recentFailureCooldown is how long a freshly failed address is rejected by
// acceptable, and so not dialed by topUp, so one persistently
// unreachable node does not dominate retry attempts.
const recentFailureCooldown = 30 * time.Second

// Connector maintains the configured fanout of outbound connections.
type Connector struct {
	knownNodes persist.KnownNodes
	dial       func(ctx context.Context, addr *net.TCPAddr) (net.Conn, error)
	connCfg    func(peerAddr *net.TCPAddr) connection.Config

	targetFanout int
	pollInterval time.Duration

	// netRestrict, when set, limits which candidate addresses are ever
	// dialed — the same optional-allowlist idiom the teacher applies to
	// inbound discovery traffic (v4_udp.go's netrestrict *netutil.Netlist).
	netRestrict *netutil.Netlist

	logger log.Logger

	mu          sync.Mutex
	connections map[string]*managedConnection
	recentFails *lru.Cache[string, time.Time]
}

// managedConnection tracks one dial-in-progress or live connection. conn
// is nil until the dial succeeds; c.mu guards both the map entry and this
// field since the dialing goroutine and evictDead/liveCount observe it
// from different goroutines.
type managedConnection struct {
	conn   *connection.Connection
	cancel context.CancelFunc
}

// Config is the connector's construction-time configuration.
type Config struct {
	KnownNodes persist.KnownNodes

	// Dial opens an outbound socket to addr.
	Dial func(ctx context.Context, addr *net.TCPAddr) (net.Conn, error)

	// ConnectionConfig builds the per-connection configuration (handshake
	// fields, gossip policy, PoW config, persister handles) for a
	// newly-dialed peer.
	ConnectionConfig func(peerAddr *net.TCPAddr) connection.Config

	TargetFanout int
	PollInterval time.Duration
	NetRestrict  *netutil.Netlist

	Logger log.Logger
}

// New constructs a Connector. PollInterval defaults to one second.
func New(cfg Config) (*Connector, error) {
	if cfg.KnownNodes == nil {
		return nil, fmt.Errorf("peer: KnownNodes is required")
	}
	if cfg.Dial == nil {
		return nil, fmt.Errorf("peer: Dial is required")
	}
	if cfg.ConnectionConfig == nil {
		return nil, fmt.Errorf("peer: ConnectionConfig is required")
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 1 * time.Second
	}

	fails, err := lru.New[string, time.Time](recentFailureCacheSize)
	if err != nil {
		return nil, fmt.Errorf("peer: build failure cache: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Root()
	}

	return &Connector{
		knownNodes:   cfg.KnownNodes,
		dial:         cfg.Dial,
		connCfg:      cfg.ConnectionConfig,
		targetFanout: cfg.TargetFanout,
		pollInterval: pollInterval,
		netRestrict:  cfg.NetRestrict,
		logger:       logger,
		connections:  make(map[string]*managedConnection),
		recentFails:  fails,
	}, nil
}

// Run drives the connector until ctx is cancelled: topping up fanout,
// periodically inspecting live connections, and evicting/replacing any
// that have gone Stale or Error (spec.md §4.G).
func (c *Connector) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		c.evictDead()
		c.topUp(ctx, &wg)

		select {
		case <-ctx.Done():
			c.closeAll()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Connector) liveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.connections)
}

// evictDead removes any tracked connection that has reached Stale or
// Error, freeing its slot for topUp to refill (spec.md §4.G).
func (c *Connector) evictDead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, mc := range c.connections {
		if mc.conn == nil {
			continue // dial still in flight
		}
		switch mc.conn.State().Phase {
		case connection.PhaseStale, connection.PhaseError:
			mc.cancel()
			delete(c.connections, key)
		}
	}
}

// topUp spawns new connections until the target fanout is met or the
// known-nodes store has nothing left to offer. maxAttempts bounds a single
// call so a known-nodes pool dominated by already-connected or recently
// failed addresses cannot spin this goroutine between ticks.
func (c *Connector) topUp(ctx context.Context, wg *sync.WaitGroup) {
	maxAttempts := c.targetFanout * 10
	if maxAttempts < 10 {
		maxAttempts = 10
	}

	for attempt := 0; attempt < maxAttempts && c.liveCount() < c.targetFanout; attempt++ {
		node, ok := c.knownNodes.PickRandom()
		if !ok {
			return
		}
		if !c.acceptable(node.Addr) {
			continue
		}

		key := node.Addr.String()
		c.mu.Lock()
		_, already := c.connections[key]
		c.mu.Unlock()
		if already {
			continue
		}

		connCtx, cancel := context.WithCancel(ctx)
		mc := &managedConnection{cancel: cancel}

		c.mu.Lock()
		c.connections[key] = mc
		c.mu.Unlock()

		wg.Add(1)
		go c.run(connCtx, wg, key, node.Addr, mc)
	}
}

// acceptable reports whether addr may be dialed: not recently failed, and
// within netRestrict when one is configured.
func (c *Connector) acceptable(addr *net.TCPAddr) bool {
	if addr == nil {
		return false
	}
	if c.netRestrict != nil && !c.netRestrict.Contains(addr.IP) {
		return false
	}
	if failedAt, ok := c.recentFails.Get(addr.String()); ok {
		if time.Since(failedAt) < recentFailureCooldown {
			return false
		}
	}
	return true
}

func (c *Connector) run(ctx context.Context, wg *sync.WaitGroup, key string, addr *net.TCPAddr, mc *managedConnection) {
	defer wg.Done()
	defer func() {
		c.mu.Lock()
		if c.connections[key] == mc {
			delete(c.connections, key)
		}
		c.mu.Unlock()
	}()

	conn, err := c.dial(ctx, addr)
	if err != nil {
		c.recentFails.Add(key, time.Now())
		c.logger.Debug("dial failed", "addr", key, "err", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	connected := connection.New(conn, addr, c.connCfg(addr))

	c.mu.Lock()
	mc.conn = connected
	c.mu.Unlock()

	g.Go(func() error { return connected.Run(gctx) })

	if err := g.Wait(); err != nil {
		c.recentFails.Add(key, time.Now())
		c.logger.Debug("connection ended", "addr", key, "err", err)
	}
}

func (c *Connector) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, mc := range c.connections {
		mc.cancel()
		delete(c.connections, key)
	}
}
