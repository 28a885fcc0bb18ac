package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/isochrone/isochrone/pkg/config"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the isochrone CLI and returns an error if any command fails.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI under the given context.
//
// The function sets up the root command with all subcommands (new, inspect,
// validate, export), configures logging based on the --verbose flag, and
// executes the command tree. The logger is attached to the context and
// accessible to all commands via loggerFromContext.
func ExecuteContext(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "isochrone",
		Short:        "Isochrone edits and inspects network-topology workspaces",
		Long:         `Isochrone is a CLI companion to the workspace engine: it creates, inspects, validates, and exports the XML workspace files the desktop application edits.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("isochrone %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML defaults override file")

	loadConfig := func() (*config.Config, error) {
		if configPath == "" {
			return config.Default(), nil
		}
		return config.Load(configPath)
	}

	root.AddCommand(newNewCmd(loadConfig))
	root.AddCommand(newInspectCmd(loadConfig))
	root.AddCommand(newValidateCmd(loadConfig))
	root.AddCommand(newExportCmd(loadConfig))

	return root.ExecuteContext(ctx)
}

// configLoader defers reading the defaults table until a command actually
// runs, so --config is parsed first.
type configLoader func() (*config.Config, error)
