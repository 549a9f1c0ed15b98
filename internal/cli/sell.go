package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSellCommand creates the sell command.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell <product-id> <quantity>",
		Short: "Sell product units from stock",
		Long: `Sell units of a product: stock is decremented and an immutable
sale row with a profit snapshot is recorded, atomically. Selling more
than is in stock fails and changes nothing.

Example:
  gymdesk sell 0190cafe-0000-7000-8000-000000000001 3`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sellProduct(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func sellProduct(opts *RootOptions, productID, quantityArg string, cmd *cobra.Command) error {
	quantity, err := strconv.Atoi(quantityArg)
	if err != nil || quantity <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q: want a positive integer", quantityArg))
	}

	app, err := openApp(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer closeApp(app)

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	sale, err := app.Cache.Sell(cmd.Context(), productID, quantity)
	if err != nil {
		formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "sale failed", err)
	}

	text := fmt.Sprintf("sold %d x %s (profit %.2f)\n", sale.QuantitySold, sale.ProductName, sale.Profit)
	return formatter.SuccessText(text, sale)
}
