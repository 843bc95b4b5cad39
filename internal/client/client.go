package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/feltable/lobby/internal/lobby"
	"github.com/feltable/lobby/internal/protocol"
	"github.com/feltable/lobby/internal/tui"
)

// Options are command-line overrides for a client run.
type Options struct {
	Server     string
	Username   string
	ConfigFile string
}

// Run connects to the lobby server, announces the resolved identity and
// drives the session until the user quits or the connection drops.
func Run(opts Options) error {
	cfg, err := LoadConfig(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.Server != "" {
		cfg.Server.URL = opts.Server
	}
	if opts.Username != "" {
		cfg.Player.Username = opts.Username
	}
	if cfg.Player.Username == "" {
		if u := os.Getenv("USER"); u != "" {
			cfg.Player.Username = u
		} else {
			cfg.Player.Username = "Player"
		}
	}

	logger, closeLog, err := newLogger(cfg.UI)
	if err != nil {
		return err
	}
	defer closeLog()

	transport, err := Dial(cfg.Server.URL,
		time.Duration(cfg.Server.PingInterval)*time.Second, quartz.NewReal(), logger)
	if err != nil {
		return err
	}

	identity := protocol.Identity{
		ID:       cfg.Player.ID,
		Username: cfg.Player.Username,
		Bankroll: cfg.Player.Bankroll,
	}

	session := lobby.NewSession(identity, transport, logger)
	session.Start()
	defer session.Close()

	// The one outbound message owed on identity resolution.
	if err := transport.Emit(protocol.EventFetchLobbyInfo, identity); err != nil {
		_ = transport.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return transport.ReadPump(session.HandleMessage)
	})
	g.Go(func() error {
		defer cancel()
		return tui.Run(ctx, session, cfg.Player.DefaultBuyIn, logger)
	})
	g.Go(func() error {
		// Unblocks the read pump once anything else winds down.
		<-ctx.Done()
		return transport.Close()
	})

	return g.Wait()
}

func newLogger(cfg UIConfig) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}

	// Log to a file: stdout belongs to the TUI.
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return logger, func() { _ = f.Close() }, nil
}
