package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/validation"
)

// readMemoFile parses a memo import file. The file is either a list of memos or a mapping
// with a memos key holding that list. JSON files are read the same way, JSON being valid YAML.
func readMemoFile(path string) ([]request.CreateMemoRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	items := doc
	if m, ok := doc.(map[string]any); ok {
		items, ok = m["memos"]
		if !ok {
			return nil, fmt.Errorf("%s: expected a list of memos or a memos key", path)
		}
	}
	if _, ok := items.([]any); !ok {
		return nil, fmt.Errorf("%s: expected a list of memos or a memos key", path)
	}

	// Round trip through JSON so the request's json tags and Value decoding apply.
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}
	var reqs []request.CreateMemoRequest
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode memos in %s: %w", path, err)
	}
	return reqs, nil
}

func newImportCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import generated memos from a YAML or JSON file",
		Long: `Import generated memos as pending.

Every memo in the file is validated first and the batch is stored in one transaction,
so nothing is stored if one of them is invalid or cannot be inserted.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			reqs, err := readMemoFile(args[0])
			if err != nil {
				return err
			}

			var invalid []error
			for i, req := range reqs {
				if err := validation.ValidateCreateMemo(req); err != nil {
					invalid = append(invalid, fmt.Errorf("memo %d (%s): %w", i+1, req.Ticker, err))
				}
			}
			if len(invalid) > 0 {
				return errors.Join(invalid...)
			}

			memos, err := a.memos.CreateMemos(cmd.Context(), reqs)
			if err != nil {
				return fmt.Errorf("imported 0 of %d memos: %w", len(reqs), err)
			}
			for _, memo := range memos {
				a.logger.Debug().Str("memo_id", memo.ID).Str("ticker", memo.Ticker).Msg("memo imported")
			}

			printf(cmd, "imported %d memos\n", len(reqs))
			return nil
		}),
	}
}

func newInboxCmd(opts *Options) *cobra.Command {
	var params request.MemoFilterParams

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List memos, pending ones by default",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			filter, page, err := request.ParseMemoFilter(params)
			if err != nil {
				return err
			}

			inbox, err := a.memos.GetInbox(cmd.Context(), filter, page)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tTICKER\tANALYST\tSIGNAL\tCONVICTION\tPRICE\tTARGET\tSTATUS")
			for _, m := range inbox.Items {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
					m.ID, m.Ticker, m.Analyst, m.Signal, m.Conviction, m.CurrentPrice, m.TargetPrice, m.Status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			printf(cmd, "%d of %d memos\n", len(inbox.Items), inbox.Total)
			return nil
		}),
	}

	cmd.Flags().StringVar(&params.Status, "status", "", "pending, approved, rejected or all")
	cmd.Flags().StringVar(&params.Analyst, "analyst", "", "only memos by this analyst")
	cmd.Flags().StringVar(&params.Signal, "signal", "", "bullish or bearish")
	cmd.Flags().StringVar(&params.Ticker, "ticker", "", "only memos for this ticker")
	cmd.Flags().StringVar(&params.MinConviction, "min-conviction", "", "minimum conviction (0-100)")
	cmd.Flags().StringVar(&params.Page, "page", "", "page number")
	cmd.Flags().StringVar(&params.PageSize, "page-size", strconv.Itoa(request.DefaultPageSize), "memos per page")

	return cmd
}

func newApproveCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "approve MEMO_ID...",
		Short: "Approve pending memos and open their investments",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			if err := validation.ValidateUUIDs(args); err != nil {
				return err
			}

			var failed []error
			for _, id := range args {
				memo, inv, err := a.reviews.Approve(cmd.Context(), id)
				if err != nil {
					failed = append(failed, fmt.Errorf("approve %s: %w", id, err))
					continue
				}
				printf(cmd, "approved %s %s, investment %s at %.2f\n", memo.ID, memo.Ticker, inv.ID, inv.EntryPrice)
			}
			return errors.Join(failed...)
		}),
	}
}

func newRejectCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "reject MEMO_ID...",
		Short: "Reject pending memos",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			if err := validation.ValidateUUIDs(args); err != nil {
				return err
			}

			var failed []error
			for _, id := range args {
				memo, err := a.reviews.Reject(cmd.Context(), id)
				if err != nil {
					failed = append(failed, fmt.Errorf("reject %s: %w", id, err))
					continue
				}
				printf(cmd, "rejected %s %s\n", memo.ID, memo.Ticker)
			}
			return errors.Join(failed...)
		}),
	}
}
