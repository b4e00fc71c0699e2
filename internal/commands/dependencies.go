package commands

import (
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/longevai/ragchat/internal/api"
	"github.com/longevai/ragchat/internal/config"
	"github.com/longevai/ragchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client tui.Querier, opts tui.Options) error
}

// ClientFactory builds the query client for a resolved configuration.
type ClientFactory func(cfg config.Config, logger zerolog.Logger) (api.QueryClientInterface, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the client used to reach the query endpoint.
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clipboard copies text to the system clipboard.
	Clipboard func(string) error

	// IsTTY reports whether stdout is an interactive terminal.
	IsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client tui.Querier, opts tui.Options) error {
	return tui.RunChat(client, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: newQueryClient,
		TUI:       &DefaultTUI{},
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: clipboard.WriteAll,
		IsTTY:     isStdoutTTY,
	}
}

// withDefaults fills unset fields so tests only provide what they fake
func (d *Dependencies) withDefaults() *Dependencies {
	defaults := NewDependencies()
	if d == nil {
		return defaults
	}
	out := *d
	if out.NewClient == nil {
		out.NewClient = defaults.NewClient
	}
	if out.TUI == nil {
		out.TUI = defaults.TUI
	}
	if out.Stdin == nil {
		out.Stdin = defaults.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = defaults.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = defaults.Stderr
	}
	if out.Clipboard == nil {
		out.Clipboard = defaults.Clipboard
	}
	if out.IsTTY == nil {
		out.IsTTY = defaults.IsTTY
	}
	return &out
}

func newQueryClient(cfg config.Config, logger zerolog.Logger) (api.QueryClientInterface, error) {
	return api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithLogger(logger),
	)
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// stdinPiped reports whether r carries piped input rather than a terminal
func stdinPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
