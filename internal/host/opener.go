// Package host implements the host-side collaborators of the snippets
// menu: opening files with the default application, notices, and the
// create-snippet dialog.
package host

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// Opener opens paths with the operating system's default application.
type Opener struct {
	goos   string
	start  func(name string, args ...string) error
	logger *slog.Logger
}

// NewOpener returns an Opener for the running OS.
func NewOpener(logger *slog.Logger) *Opener {
	return &Opener{goos: runtime.GOOS, start: startDetached, logger: logger}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the launcher in the background; its exit status is not ours.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Open launches the default application for path. The path must exist.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("host: open %s: %w", path, err)
	}
	name, args := o.command(path)
	o.logger.Debug("host: opening", slog.String("path", path), slog.String("cmd", name))
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("host: %s %s: %w", name, path, err)
	}
	return nil
}

func (o *Opener) command(path string) (string, []string) {
	switch o.goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		// No cmd.exe: it would treat & and | in file names as operators.
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
