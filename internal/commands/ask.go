package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/longevai/ragchat/internal/logging"
	"github.com/longevai/ragchat/internal/models"
	"github.com/longevai/ragchat/internal/render"
	"github.com/longevai/ragchat/internal/tui"
)

// askOptions are the per-invocation switches of a one-shot question
type askOptions struct {
	output string
	copy   bool
	raw    bool
}

// NewAskCmd creates the one-shot question command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	var (
		fileFlag string
		opts     askOptions
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Send a single question and print the answer",
		Long: `Send a single question to the endpoint and print the answer.

The question is taken from the argument, from --file, or from piped stdin.
When the backend cannot be reached or replies with anything other than
{"answer": "..."}, the same apology the chat shows is printed to stderr and
the command exits non-zero. Use --verbose to see the underlying error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(deps, args, fileFlag)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, question, opts)
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the answer to file")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the answer to the clipboard")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the answer without decoration")

	return cmd
}

// readQuestion picks the question source: file, then argument, then stdin
func readQuestion(deps *Dependencies, args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if len(args) > 0 {
		return args[0], nil
	}

	if stdinPiped(deps.Stdin) {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	return "", fmt.Errorf("no question given: pass it as an argument, with --file, or on stdin")
}

// runAsk sends a single question and prints the answer. On a terminal the
// answer is drawn in the chat's answer bubble; otherwise the raw text is
// printed so the output can be piped.
func runAsk(cmd *cobra.Command, deps *Dependencies, question string, opts askOptions) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	verbose := isVerbose(cmd)
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := logging.NewConsole(deps.Stderr, level)

	decorated := !opts.raw && deps.IsTTY()
	if decorated {
		applyTheme(cfg.TUITheme, deps)
	}

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var progress *tui.Progress
	if decorated {
		progress = tui.StartProgress(deps.Stderr, "Thinking")
	}

	start := time.Now()
	answer, err := client.Query(ctx, question)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		fmt.Fprintln(deps.Stderr, tui.Notice(models.FallbackMessage, true))
		if verbose {
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Query failed"))
		}
		return fmt.Errorf("%w: %w", errQueryFailed, err)
	}

	logger.Debug().Dur("elapsed", time.Since(start).Round(time.Millisecond)).Int("answer_len", len(answer)).Msg("query answered")

	if opts.copy || cfg.CopyToClipboard {
		if err := deps.Clipboard(answer); err != nil {
			fmt.Fprintln(deps.Stderr, tui.Notice(fmt.Sprintf("Failed to copy to clipboard: %v", err), true))
		} else {
			fmt.Fprintln(deps.Stderr, tui.Notice("Copied to clipboard", false))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(answer), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(deps.Stderr, tui.Notice("Answer saved to "+opts.output, false))
		return nil
	}

	if !decorated {
		fmt.Fprint(deps.Stdout, answer)
		if !strings.HasSuffix(answer, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	width := min(max(getTerminalWidth()-4, 40), 120)
	fmt.Fprintln(deps.Stdout, tui.AnswerBlock(answer, width, render.NewOptions(cfg.Markdown)))
	return nil
}
