package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gymdesk/internal/model"
)

// AttendOptions holds flags for the attend command.
type AttendOptions struct {
	*RootOptions
	Training []string
	Remove   bool
	Date     string
}

// NewAttendCommand creates the attend command.
func NewAttendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AttendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "attend <subscriber-id>",
		Short: "Record or remove a gym visit",
		Long: `Record today's visit for a subscriber. At most one visit per day is
kept; expired subscriptions are rejected, frozen ones may still attend.

With --remove, deletes the visit on --date (today when omitted);
removing a day that was never recorded is a no-op.

Example:
  gymdesk attend 0190cafe-0000-7000-8000-000000000001 --training chest,back
  gymdesk attend 0190cafe-0000-7000-8000-000000000001 --remove --date 2024-06-01`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return attend(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Training, "training", nil, "training types for the visit")
	cmd.Flags().BoolVar(&opts.Remove, "remove", false, "remove a recorded visit instead of adding one")
	cmd.Flags().StringVar(&opts.Date, "date", "", "visit date to remove (YYYY-MM-DD, default today)")

	return cmd
}

func attend(opts *AttendOptions, subscriberID string, cmd *cobra.Command) error {
	if opts.Date != "" {
		if !opts.Remove {
			return NewExitError(ExitCommandError, "--date only applies with --remove")
		}
		if _, err := time.Parse(model.DateOnly, opts.Date); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --date %q, want YYYY-MM-DD", opts.Date), err)
		}
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

	if opts.Remove {
		date := opts.Date
		if date == "" {
			date = time.Now().Format(model.DateOnly)
		}
		if err := app.Cache.RemoveAttendance(cmd.Context(), subscriberID, date); err != nil {
			formatter.Error(errorCode(err), err.Error(), nil)
			return WrapExitError(ExitFailure, "remove attendance failed", err)
		}
		return formatter.SuccessText(fmt.Sprintf("removed visit on %s\n", date),
			map[string]string{"removed": date})
	}

	if err := app.Cache.RecordAttendance(cmd.Context(), subscriberID, opts.Training); err != nil {
		formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "record attendance failed", err)
	}

	sub, err := app.Cache.Subscriber(subscriberID)
	if err != nil {
		return WrapExitError(ExitFailure, "record attendance failed", err)
	}
	text := fmt.Sprintf("visit recorded for %s (%d total)\n", sub.Name, len(sub.Attendance))
	if len(opts.Training) > 0 {
		text = fmt.Sprintf("visit recorded for %s: %s (%d total)\n",
			sub.Name, strings.Join(opts.Training, ", "), len(sub.Attendance))
	}
	return formatter.SuccessText(text, sub.Attendance)
}
