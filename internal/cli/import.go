package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Yes bool
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Replace the database with an imported image",
		Long: `Validate the image at source and replace the entire database with it.
This discards all current data irreversibly, so --yes is required.
A file that is not a loadable image with the expected schema is
rejected and the current data stays untouched.

Example:
  gymdesk import /backups/gym_database_2024-06-01.sqlite --yes`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return importImage(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm replacing all current data")

	return cmd
}

func importImage(opts *ImportOptions, source string, cmd *cobra.Command) error {
	if !opts.Yes {
		return NewExitError(ExitCommandError,
			"import replaces all current data; re-run with --yes to confirm")
	}

	app, err := openApp(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeApp(app)

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if err := app.Adapter.Import(cmd.Context(), source); err != nil {
		formatter.Error(ErrCodeValidation, err.Error(), nil)
		return WrapExitError(ExitFailure, "import failed", err)
	}
	if err := app.Cache.Reload(cmd.Context()); err != nil {
		return WrapExitError(ExitFailure, "reload after import failed", err)
	}

	subs := len(app.Cache.Subscribers())
	return formatter.SuccessText(
		fmt.Sprintf("imported %s (%d subscribers)\n", source, subs),
		map[string]any{"path": source, "subscribers": subs})
}
