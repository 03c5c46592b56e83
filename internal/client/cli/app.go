package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/vaultx/internal/client/config"
	"github.com/dmitrijs2005/vaultx/internal/client/services"
	"github.com/dmitrijs2005/vaultx/internal/logging"
	"github.com/dmitrijs2005/vaultx/internal/netx"
)

// syncRunner is the part of services.AutoSync the App drives.
type syncRunner interface {
	Start(ctx context.Context)
	Tick(ctx context.Context) services.PassReport
}

type App struct {
	config *config.Config
	// mode is the resolved storage mode, never ModeAuto.
	mode  config.Mode
	docs  services.DocumentService
	auth  services.AuthService
	auto  syncRunner
	probe netx.Probe

	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger

	closers []func() error
}

// Run starts auto-sync when there is a local store and then blocks in the
// REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.auto != nil {
		go a.auto.Start(ctx)
	}

	printlnFn(fmt.Sprintf("Welcome to vaultx (%s mode, type 'help' for commands)", a.mode))
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}

// Close releases the stores in reverse order of opening.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.auth.CurrentSession(ctx)
	return ok
}

func (a *App) getStatus(ctx context.Context) string {
	s := string(a.mode)
	if session, ok := a.auth.CurrentSession(ctx); ok {
		s = session.UserID + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

func newApp(cfg *config.Config, mode config.Mode, log logging.Logger) *App {
	return &App{
		config: cfg,
		mode:   mode,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		log:    log,
	}
}
