package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
)

func newLeaderboardCmd(opts *Options) *cobra.Command {
	var sortBy, limit string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank analysts by win rate, average return or memo count",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			key, n, err := request.ParseLeaderboardParams(sortBy, limit)
			if err != nil {
				return err
			}

			stats, err := a.analysts.GetLeaderboard(cmd.Context(), key, n)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "RANK\tANALYST\tMEMOS\tAPPROVED\tACTIVE\tCLOSED\tWIN RATE\tAVG RETURN\tTOTAL RETURN")
			for i, s := range stats {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
					i+1, s.Analyst, s.TotalMemos, s.ApprovedCount, s.ActiveCount, s.ClosedCount,
					s.WinRate, s.AvgReturn, s.TotalReturn)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&sortBy, "sort-by", "win_rate", "win_rate, avg_return or total_memos")
	cmd.Flags().StringVar(&limit, "limit", strconv.Itoa(request.DefaultLeaderboardLimit), "number of analysts (1-100)")

	return cmd
}
