package connection

import "errors"

var (
	// errConnectionStale is returned from Run when the state worker's
	// staleness check fires (spec.md §4.F "Staleness").
	errConnectionStale = errors.New("connection: stale, no activity within timeout")

	// errConnectionProtocolError is returned by the state worker when the
	// transition table moves the connection to Error: a rejected frame or a
	// forwarded parse/IO error (spec.md §4.F, §7). On a read failure the
	// read worker also returns its own error, and Run reports whichever
	// error the errgroup records first.
	errConnectionProtocolError = errors.New("connection: protocol error")
)
