package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/longevai/ragchat/internal/config"
	"github.com/longevai/ragchat/internal/logging"
	"github.com/longevai/ragchat/internal/render"
	"github.com/longevai/ragchat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Every question is sent on its own; the backend keeps no conversation state.
Press Esc or Ctrl+C to end the session. The transcript is not saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog := chatLogger(cfg, isVerbose(cmd), deps)
	defer closeLog()

	applyTheme(cfg.TUITheme, deps)

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	logger.Info().Str("endpoint", cfg.Endpoint).Int("timeout_seconds", cfg.TimeoutSeconds).Msg("chat session started")

	return deps.TUI.RunChat(client, tui.Options{
		Title:       cfg.Title,
		Welcome:     cfg.Welcome,
		Placeholder: cfg.Placeholder,
		Endpoint:    cfg.Endpoint,
		Render:      render.NewOptions(cfg.Markdown),
		Logger:      logger,
		Clipboard:   deps.Clipboard,
	})
}

// applyTheme selects the configured color theme for the chat and the ask
// output, warning when the name is unknown
func applyTheme(name string, deps *Dependencies) {
	if !render.SetTUITheme(name) {
		fmt.Fprintf(deps.Stderr, "Warning: unknown theme '%s', using %s\n", name, render.DefaultTUITheme)
	}
	tui.UpdateTheme()
}

// chatLogger opens the session log file. The terminal belongs to the TUI, so
// a log that cannot be opened degrades to a no-op logger with a warning.
func chatLogger(cfg config.Config, verbose bool, deps *Dependencies) (zerolog.Logger, func()) {
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = zerolog.DebugLevel
	}
	if level == zerolog.Disabled {
		return zerolog.Nop(), func() {}
	}

	path, err := config.GetLogPath()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: logging disabled: %v\n", err)
		return zerolog.Nop(), func() {}
	}

	logger, closer, err := logging.NewFile(path, level)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: logging disabled: %v\n", err)
		return zerolog.Nop(), func() {}
	}

	return logger, func() { _ = closer.Close() }
}
