// Command rubbem-node runs a standalone overlay client: it loads
// configuration, seeds the known-nodes store from the bootstrap list, and
// drives the peer connector until terminated.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cjgreenaway/rubbem/connection"
	"github.com/cjgreenaway/rubbem/internal/bmlog"
	"github.com/cjgreenaway/rubbem/internal/config"
	_ "github.com/cjgreenaway/rubbem/message/object" // registers GetPubKeyV4 via init()
	"github.com/cjgreenaway/rubbem/peer"
	"github.com/cjgreenaway/rubbem/pow"
	"github.com/cjgreenaway/rubbem/store"
)

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to the YAML configuration file",
	Value: "rubbem.yaml",
}

func main() {
	app := &cli.App{
		Name:  "rubbem-node",
		Usage: "run an overlay network peer",
		Flags: []cli.Flag{configFlag},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "rubbem-node:", err)
		os.Exit(1)
	}
}

func run(cliCtx *cli.Context) error {
	cfg, err := config.Load(cliCtx.String(configFlag.Name))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := bmlog.Setup(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	knownNodes := store.NewMemoryKnownNodes()
	inventory := store.NewMemoryInventory()

	if knownNodes.Len() == 0 {
		for _, hostPort := range cfg.BootstrapNodes {
			if err := knownNodes.AddHostPort(1, 0, hostPort); err != nil {
				logger.Warn("skipping bootstrap node", "addr", hostPort, "err", err)
			}
		}
	}

	connCfg := func(peerAddr *net.TCPAddr) connection.Config {
		return connection.Config{
			Handshake: connection.HandshakeConfig{
				ProtocolVersion: 3,
				Services:        1,
				Nonce:           cfg.Nonce,
				UserAgent:       cfg.UserAgent,
				Streams:         []uint64{1},
				ListenPort:      cfg.ListenPort,
			},
			KnownNodes:             knownNodes,
			Inventory:              inventory,
			Gossip:                 connection.FixedGossipPolicy{},
			PowVerify:              pow.VerifyConfig(time.Now),
			RespondChannelCapacity: int64(cfg.RespondChannelCapacity),
			Logger:                 logger,
		}
	}

	connector, err := peer.New(peer.Config{
		KnownNodes:       knownNodes,
		Dial:             dialTCP,
		ConnectionConfig: connCfg,
		TargetFanout:     cfg.TargetFanout,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("build peer connector: %w", err)
	}

	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting node", "listen_port", cfg.ListenPort, "target_fanout", cfg.TargetFanout)
	err = connector.Run(ctx)
	if err != nil && ctx.Err() != nil {
		logger.Info("shutting down")
		return nil
	}
	return err
}

func dialTCP(ctx context.Context, addr *net.TCPAddr) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr.String())
}
