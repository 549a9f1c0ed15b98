package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gymdesk/internal/derive"
	"gymdesk/internal/model"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Month string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show membership and revenue statistics",
		Long: `Show membership counts, revenue, expenses and attendance, either
all-time or restricted to a single month.

Example:
  gymdesk stats
  gymdesk stats --month 2024-06 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Month, "month", "", "restrict to a month (YYYY-MM)")

	return cmd
}

func showStats(opts *StatsOptions, cmd *cobra.Command) error {
	if opts.Month != "" {
		if _, err := time.Parse("2006-01", opts.Month); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --month %q, want YYYY-MM", opts.Month), err)
		}
	}

	app, err := openApp(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeApp(app)

	stats := app.Cache.Stats(opts.Month)
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	return formatter.SuccessText(renderStats(stats, opts.Month), stats)
}

// renderStats produces the human-readable statistics report. Output is
// deterministic for a given input: categories are sorted.
func renderStats(stats derive.Statistics, month string) string {
	var b strings.Builder

	scope := "all time"
	if month != "" {
		scope = month
	}
	fmt.Fprintf(&b, "Statistics (%s)\n\n", scope)

	fmt.Fprintln(&b, "Subscribers")
	fmt.Fprintf(&b, "  total: %d  active: %d  frozen: %d  expired: %d\n",
		stats.TotalSubscribers, stats.ActiveSubscribers, stats.FrozenSubscribers, stats.ExpiredSubscribers)
	fmt.Fprintf(&b, "  male: %d  female: %d\n", stats.MaleSubscribers, stats.FemaleSubscribers)
	fmt.Fprintf(&b, "  visits: %d  average per member: %.1f\n\n",
		stats.TotalAttendance, stats.AverageAttendance)

	fmt.Fprintln(&b, "Revenue")
	fmt.Fprintf(&b, "  subscriptions: %.2f\n", stats.SubscriptionRevenue)
	fmt.Fprintf(&b, "  sales profit:  %.2f\n", stats.SalesProfit)
	fmt.Fprintf(&b, "  classes:       %.2f\n", stats.ClassRevenue)
	fmt.Fprintf(&b, "  total:         %.2f\n\n", stats.TotalRevenue)

	fmt.Fprintln(&b, "Expenses")
	categories := make([]string, 0, len(stats.ExpensesByCategory))
	for cat := range stats.ExpensesByCategory {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)
	for _, cat := range categories {
		fmt.Fprintf(&b, "  %-12s %.2f\n", cat+":", stats.ExpensesByCategory[model.ExpenseCategory(cat)])
	}
	fmt.Fprintf(&b, "  total:       %.2f\n\n", stats.TotalExpenses)

	fmt.Fprintf(&b, "Net profit:      %.2f\n", stats.NetProfit)
	fmt.Fprintf(&b, "Inventory value: %.2f\n", stats.InventoryValue)
	return b.String()
}
