package cli

import (
	"github.com/spf13/cobra"

	"github.com/isochrone/isochrone/pkg/workspace"
)

// newNewCmd creates the "new" command, which writes an empty workspace file
// with a generated identifier and the inbuilt default styles.
func newNewCmd(loadConfig configLoader) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create an empty workspace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ws := workspace.Create(cfg, logger, name)
			if err := ws.Save(args[0], nil); err != nil {
				printError("could not create workspace: %v", err)
				return err
			}
			printSuccess("created workspace %q", name)
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "Untitled", "workspace name")
	return cmd
}
