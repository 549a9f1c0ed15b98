package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gymdesk/internal/derive"
	"gymdesk/internal/model"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Month  string
	Search string
}

var listEntities = []string{"subscribers", "products", "sales", "expenses", "classes", "expiring"}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "List subscribers, products, sales, expenses or classes",
		Long: `List one entity collection. The entity is one of: subscribers,
products, sales, expenses, classes, expiring.

"expiring" shows active subscribers within seven days of their expiry
date. --search matches subscriber name, phone or residence.

Example:
  gymdesk list subscribers --search ali
  gymdesk list sales --month 2024-06
  gymdesk list expiring`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listEntity(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Month, "month", "", "restrict to a month (YYYY-MM)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter subscribers by name, phone or residence")

	return cmd
}

func listEntity(opts *ListOptions, entity string, cmd *cobra.Command) error {
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

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	switch entity {
	case "subscribers":
		subs := app.Cache.SearchSubscribers(opts.Search)
		if opts.Month != "" {
			subs = derive.SubscribersInMonth(subs, opts.Month)
		}
		return formatter.SuccessText(renderSubscribers(subs), subs)
	case "expiring":
		soon := app.Cache.ExpiringSoon()
		return formatter.SuccessText(renderSubscribers(soon), soon)
	case "products":
		products := app.Cache.Products()
		return formatter.SuccessText(renderProducts(products), products)
	case "sales":
		sales := app.Cache.Sales()
		if opts.Month != "" {
			sales = derive.SalesInMonth(sales, opts.Month)
		}
		return formatter.SuccessText(renderSales(sales), sales)
	case "expenses":
		expenses := app.Cache.Expenses()
		if opts.Month != "" {
			expenses = derive.ExpensesInMonth(expenses, opts.Month)
		}
		return formatter.SuccessText(renderExpenses(expenses), expenses)
	case "classes":
		classes := app.Cache.Classes()
		if opts.Month != "" {
			classes = derive.ClassesInMonth(classes, opts.Month)
		}
		return formatter.SuccessText(renderClasses(classes), classes)
	default:
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown entity %q: must be one of %v", entity, listEntities))
	}
}

func renderSubscribers(subs []model.Subscriber) string {
	if len(subs) == 0 {
		return "no subscribers\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tEXPIRES\tVISITS\tPHONE")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			shortID(sub.ID), sub.Name, sub.Status,
			sub.ExpiryDate.Format(model.DateOnly), len(sub.Attendance), sub.Phone)
	}
	w.Flush()
	return b.String()
}

func renderProducts(products []model.Product) string {
	if len(products) == 0 {
		return "no products\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tBUY\tSELL")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n",
			shortID(p.ID), p.Name, p.Quantity, p.PurchasePrice, p.SellingPrice)
	}
	w.Flush()
	return b.String()
}

func renderSales(sales []model.Sale) string {
	if len(sales) == 0 {
		return "no sales\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPRODUCT\tQTY\tPROFIT")
	for _, s := range sales {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n",
			s.SaleDate.Format(model.DateOnly), s.ProductName, s.QuantitySold, s.Profit)
	}
	w.Flush()
	return b.String()
}

func renderExpenses(expenses []model.Expense) string {
	if len(expenses) == 0 {
		return "no expenses\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tNAME\tCATEGORY\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n",
			e.Date.Format(model.DateOnly), e.Name, e.Category, e.Amount)
	}
	w.Flush()
	return b.String()
}

func renderClasses(classes []model.IndividualClass) string {
	if len(classes) == 0 {
		return "no classes\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tNAME\tAGE\tPRICE")
	for _, cl := range classes {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n",
			cl.Date.Format(model.DateOnly), cl.Name, cl.Age, cl.Price)
	}
	w.Flush()
	return b.String()
}

// shortID truncates a UUID for table display; full IDs come from the
// JSON output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
