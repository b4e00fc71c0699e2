package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/longevai/ragchat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration ragchat would use, after applying the config
file, .env, RAGCHAT_* environment variables and flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, deps)
		},
	}

	cmd.AddCommand(newConfigInitCmd(deps))

	return cmd
}

func newConfigInitCmd(deps *Dependencies) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(deps.Stdout, "Config file already exists: %s (use --force to overwrite)\n", path)
				return nil
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to check config file: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := config.SaveConfigTo(path, config.DefaultConfig()); err != nil {
				return err
			}

			fmt.Fprintf(deps.Stdout, "✓ Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runConfigShow(cmd *cobra.Command, deps *Dependencies) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}

	status := "not found, using defaults"
	if _, err := os.Stat(path); err == nil {
		status = "loaded"
	}
	fmt.Fprintf(deps.Stdout, "# %s (%s)\n", path, status)
	fmt.Fprint(deps.Stdout, string(data))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
	}
	return nil
}

// configPath returns the --config path or the default location
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.GetConfigPath()
}
