package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/render"
	"github.com/isochrone/isochrone/pkg/workspace"
)

// newExportCmd creates the "export" command, rendering a workspace's
// topology as Graphviz DOT or SVG.
func newExportCmd(loadConfig configLoader) *cobra.Command {
	var (
		format   string
		out      string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Render the topology as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ws := workspace.New(cfg, logger)
			if err := ws.Load(args[0]); err != nil {
				printError("could not load workspace: %v", err)
				return err
			}

			p := newProgress(logger)
			dot := render.ToDOT(ws.Data(), render.Options{Detailed: detailed})

			var output []byte
			switch format {
			case "dot":
				output = []byte(dot)
			case "svg":
				output, err = render.RenderSVG(dot)
				if err != nil {
					printError("render failed: %v", err)
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidArgument, "unknown format %q (want dot or svg)", format)
			}

			if out == "" {
				cmd.OutOrStdout().Write(output)
				return nil
			}
			if err := os.WriteFile(out, output, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeFailed, err, "write %s", out)
			}
			p.done("topology exported")
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node types and service bindings in labels")
	return cmd
}
