// Package cli implements the psdcomp command-line interface.
//
// # Commands
//
//   - render: composite a manifest (or one of its layers) into an image file
//   - modes: list blend modes in a manifest that are painted as normal
//   - serve: run an HTTP preview server over a manifest
//
// # Configuration
//
// Defaults for output format, JPEG quality, background, cache size and the
// server address can be set in a TOML file passed with --config. Flags win
// over the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried in the command context and also receives the compositor's own
// log records.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/psdcomp"
)

var (
	version = psdcomp.Version
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the psdcomp CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "psdcomp",
		Short:        "psdcomp composites layered documents into flat images",
		Long:         `psdcomp recomputes a flat image from a tree of pre-rendered layers, honoring visibility, opacity, blend modes, groups and clipping masks.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			psdcomp.SetLogger(slog.New(logger))

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("psdcomp %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("PSDCOMP_CONFIG"), "TOML config file")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newModesCmd())
	root.AddCommand(newServeCmd())

	return root
}
