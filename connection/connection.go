package connection

import (
	"context"
	"net"
	"time"

	"github.com/erigontech/erigon-lib/log/v3"
	"golang.org/x/sync/errgroup"

	"github.com/cjgreenaway/rubbem/chanutil"
	"github.com/cjgreenaway/rubbem/message"
	"github.com/cjgreenaway/rubbem/persist"
	"github.com/cjgreenaway/rubbem/pow"
)

// readToStateCapacity is the read→state channel's depth. Frame events are
// small and fixed-size (a pointer plus an error), unlike the
// state→respond leg, so a plain count-bounded buffer is the right tool
// here — only the respond-bound leg carries the wildly variable object
// payloads spec.md §9 requires byte-weighting for.
const readToStateCapacity = 16

// respondToWriteCapacity bounds the respond→write leg by count as well. This
// leg carries every frame the respond worker emits: Verack, Addr, Inv,
// GetData, and the Object frames that answer a GetData.
const respondToWriteCapacity = 16

// staleCheckInterval is how often the state worker re-evaluates the
// current phase's idle timeout in the absence of incoming frames
// (spec.md §4.F "Staleness").
const staleCheckInterval = 1 * time.Second

// Config bundles everything a Connection needs beyond the live socket:
// the handshake fields, shared persistence, the gossip extension point,
// proof-of-work configuration, the byte-weighted channel budget, and a
// logger (spec.md §4.F, §4.H, §6).
type Config struct {
	Handshake HandshakeConfig

	KnownNodes persist.KnownNodes
	Inventory  persist.Inventory
	Gossip     GossipPolicy

	PowVerify pow.Config

	// RespondChannelCapacity bounds the state→respond leg in bytes
	// (spec.md §4.F default: 20,000,000).
	RespondChannelCapacity int64

	Logger log.Logger

	Clock func() time.Time
}

// Connection owns one peer socket and the four cooperating goroutines
// that drive it: read, state, respond, write (spec.md §4.F). Exactly one
// of these is ever writing the state cell; the others only read it.
type Connection struct {
	conn net.Conn
	cfg  Config

	cell *cell

	readToState    chan event
	stateToRespond *chanutil.BoundedChannel[weightedMessage]
	respondToWrite chan message.Message

	logger log.Logger
}

// weightedMessage adapts message.Message to chanutil.Weighted so it can
// ride the byte-weighted state→respond channel.
type weightedMessage struct {
	message.Message
}

func (w weightedMessage) Weight() int { return message.Weight(w.Message) }

// New constructs a Connection over an already-dialed or already-accepted
// socket. peerAddr is the remote endpoint; it labels the connection's log
// lines. The outbound Version's AddrRecv field is taken from
// conn.RemoteAddr() in Run.
func New(conn net.Conn, peerAddr *net.TCPAddr, cfg Config) *Connection {
	capacity := cfg.RespondChannelCapacity
	if capacity <= 0 {
		capacity = 20_000_000
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Root()
	}
	logger = logger.New("peer", peerAddr.String())

	return &Connection{
		conn: conn,
		cfg:  cfg,
		cell: newCell(State{Phase: PhaseFresh, EnteredAt: time.Now()}),

		readToState:    make(chan event, readToStateCapacity),
		stateToRespond: chanutil.NewBoundedChannel[weightedMessage](capacity),
		respondToWrite: make(chan message.Message, respondToWriteCapacity),

		logger: logger,
	}
}

// State returns a snapshot of the connection's current phase, safe to
// call from any goroutine (spec.md §3, §9).
func (c *Connection) State() State {
	return c.cell.Get()
}

// Run drives the connection to completion: sends the proactive Version
// frame, starts the four workers, and blocks until the socket closes, ctx
// is cancelled, or a fatal frame/body error tears the connection down
// (spec.md §4.F, §7). The socket is always closed on return.
func (c *Connection) Run(ctx context.Context) error {
	defer c.conn.Close()

	clock := c.cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	peerAddr, _ := c.conn.RemoteAddr().(*net.TCPAddr)
	version := makeVersionMessage(c.cfg.Handshake, peerAddr, clock())
	if err := message.Write(c.conn, version); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	// Closing the socket as soon as gctx is done is what unblocks a
	// readWorker parked in message.Read, so Wait can return.
	stopClose := context.AfterFunc(gctx, func() { c.conn.Close() })
	defer stopClose()
	g.Go(func() error { return c.readWorker(gctx) })
	g.Go(func() error { return c.stateWorker(gctx, clock) })
	g.Go(func() error { return c.respondWorker(gctx) })
	g.Go(func() error { return c.writeWorker(gctx) })

	err := g.Wait()
	c.conn.Close() // all workers have returned; release the socket now
	return err
}

func (c *Connection) readWorker(ctx context.Context) error {
	for {
		m, err := message.Read(c.conn)
		select {
		case c.readToState <- event{frame: m, err: err}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if err != nil {
			return err
		}
	}
}

func (c *Connection) stateWorker(ctx context.Context, clock func() time.Time) error {
	ticker := time.NewTicker(staleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			now := clock()
			next := checkStaleness(c.cell.Get(), now)
			c.cell.Set(next)
			if next.Phase == PhaseStale {
				return errConnectionStale
			}

		case ev := <-c.readToState:
			now := clock()
			current := c.cell.Get()
			next, forward := transition(current, now, ev)
			c.cell.Set(next)

			if next.Phase == PhaseError {
				if c.logger != nil {
					c.logger.Debug("connection entering error state", "reason", ev.err)
				}
				return errConnectionProtocolError
			}

			if forward == nil {
				continue
			}
			if err := c.stateToRespond.Send(ctx, weightedMessage{forward}); err != nil {
				return err
			}
		}
	}
}

func (c *Connection) respondWorker(ctx context.Context) error {
	rs := &respondState{
		cfg:        c.cfg.Handshake,
		knownNodes: c.cfg.KnownNodes,
		inventory:  c.cfg.Inventory,
		gossip:     c.cfg.Gossip,
		powVerify:  c.cfg.PowVerify,
		logger:     c.logger,
	}

	for {
		wm, err := c.stateToRespond.Recv(ctx)
		if err != nil {
			return err
		}

		for _, out := range rs.handle(wm.Message) {
			select {
			case c.respondToWrite <- out:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (c *Connection) writeWorker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-c.respondToWrite:
			if err := message.Write(c.conn, m); err != nil {
				return err
			}
		}
	}
}
