// Package commands provides CLI commands for ragchat.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/longevai/ragchat/internal/config"
	"github.com/longevai/ragchat/internal/models"
)

// BuildTime is set at build time
var BuildTime = "unknown"

// errQueryFailed marks failures already reported to the user
var errQueryFailed = errors.New("query failed")

// NewRootCmd creates the command tree. With no arguments it opens the chat;
// a single argument is sent as a one-shot question.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "ragchat [question]",
		Short: "Terminal chat client for a retrieval-augmented QA backend",
		Long: `ragchat is a terminal chat client for a question-answering backend.
Each question is POSTed as {"query": ...} to the configured endpoint and the
backend's {"answer": ...} is shown in the conversation.

Examples:
  ragchat                                   Start interactive chat
  ragchat --endpoint http://host:8000/query Chat with another backend
  ragchat "Is walking good cardio?"         Send a single question
  ragchat ask -f question.md                Read the question from a file
  echo "Why stretch?" | ragchat ask         Read the question from stdin
  ragchat config init                       Write the default config file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "ragchat %s (built %s)\n", models.Version, BuildTime)
				return nil
			}

			if len(args) > 0 {
				return runAsk(cmd, deps, args[0], askOptions{})
			}

			return runChat(cmd, deps)
		},
	}

	cmd.PersistentFlags().String("endpoint", "", "Query endpoint URL (default "+models.EndpointQuery+")")
	cmd.PersistentFlags().String("config", "", "Path to config file (default ~/.ragchat/config.toml)")
	cmd.PersistentFlags().Bool("verbose", false, "Show error details and write debug logs")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewAskCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errQueryFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// loadSettings resolves the effective configuration for cmd: defaults, then
// the config file, then .env and environment, then flags.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return config.DefaultConfig(), fmt.Errorf("config file %s: %w", path, statErr)
		}
		cfg, err = config.LoadConfigFrom(path)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return cfg, err
	}

	dotenv, err := config.ReadDotEnv(".env")
	if err != nil {
		return cfg, err
	}
	if cfg, err = config.ApplyEnv(cfg, dotenv); err != nil {
		return cfg, err
	}

	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Endpoint = endpoint
	}

	return cfg, nil
}

func isVerbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}
