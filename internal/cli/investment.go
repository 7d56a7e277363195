package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Research-Backend/internal/validation"
)

func newCloseCmd(opts *Options) *cobra.Command {
	var exitPrice float64

	cmd := &cobra.Command{
		Use:   "close INVESTMENT_ID",
		Short: "Close an active investment at an exit price",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			if err := validation.ValidateUUID(args[0]); err != nil {
				return err
			}

			inv, err := a.investments.CloseInvestment(cmd.Context(), args[0], exitPrice)
			if err != nil {
				return err
			}

			pnl := "n/a"
			if inv.PnLPercent != nil {
				pnl = fmt.Sprintf("%.2f%%", *inv.PnLPercent)
			}
			printf(cmd, "closed %s %s at %.2f, pnl %s\n", inv.ID, inv.Ticker, exitPrice, pnl)
			return nil
		}),
	}

	cmd.Flags().Float64Var(&exitPrice, "price", 0, "exit price (required)")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newRefreshPricesCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-prices",
		Short: "Fetch the latest price of every active investment",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			result, err := a.refresh.RefreshActive(cmd.Context())
			for _, e := range result.Errors {
				printf(cmd, "failed %s: %s\n", e.Ticker, e.Error)
			}
			if err != nil {
				return err
			}
			printf(cmd, "updated %d investments\n", result.UpdatedCount)
			return nil
		}),
	}
}
