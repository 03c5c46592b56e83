// Package opener hands a file path or URL to the operating system's default
// viewer.
package opener

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/dmitrijs2005/vaultx/internal/filex"
)

type Opener interface {
	Open(ctx context.Context, target string) error
}

// System launches the platform's open command and does not wait for the
// viewer to exit.
type System struct {
	goos    string
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewSystem() *System {
	return &System{goos: runtime.GOOS, command: exec.CommandContext}
}

func (s *System) Open(ctx context.Context, target string) error {
	name, args := s.commandFor(target)
	cmd := s.command(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s *System) commandFor(target string) (string, []string) {
	if filex.IsLocalPath(target) {
		target = filex.ToPath(target)
	}
	switch s.goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}
