package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [destination]",
		Short: "Export a backup copy of the database",
		Long: `Write a copy of the current database image to the destination path.
A directory or no argument at all gets a dated default filename
(gym_database_YYYY-MM-DD.sqlite). The live database is not touched.

Example:
  gymdesk export
  gymdesk export /backups/
  gymdesk export /backups/before-migration.sqlite`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := ""
			if len(args) == 1 {
				dest = args[0]
			}
			return exportImage(rootOpts, dest, cmd)
		},
	}
	return cmd
}

func exportImage(opts *RootOptions, dest string, cmd *cobra.Command) error {
	app, err := openApp(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer closeApp(app)

	written, err := app.Adapter.Export(cmd.Context(), dest)
	if err != nil {
		return WrapExitError(ExitFailure, "export failed", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	return formatter.SuccessText(fmt.Sprintf("exported to %s\n", written),
		map[string]string{"path": written})
}
