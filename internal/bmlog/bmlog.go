// Package bmlog wires up the root structured logger. It exists so every
// other package can depend on a single log.Logger value rather than each
// constructing its own — the same root-logger convention the teacher uses
// (turbo/debug.Setup / turbo/app/init_cmd.go).
package bmlog

import (
	"os"

	"github.com/erigontech/erigon-lib/log/v3"
)

// Setup configures the process-wide root logger at the given level
// ("trace", "debug", "info", "warn", "error") and returns a Logger scoped
// with component="rubbem" for top-level use; component loggers should be
// derived with logger.New("component", name) matching the teacher's own
// contextual-logger idiom.
func Setup(levelName string) (log.Logger, error) {
	lvl, err := log.LvlFromString(levelName)
	if err != nil {
		lvl = log.LvlInfo
	}

	handler := log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat(false)))
	root := log.Root()
	root.SetHandler(handler)

	return root.New("component", "rubbem"), nil
}
