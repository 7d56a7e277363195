// Package cli implements reviewctl, the operator command line for the research inbox.
// Every command works on the same database the server uses.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Research-Backend/internal/config"
	"github.com/ndewijer/Investment-Research-Backend/internal/database"
	"github.com/ndewijer/Investment-Research-Backend/internal/logging"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
	"github.com/ndewijer/Investment-Research-Backend/internal/yahoo"
)

// Options are the settings shared by every command.
type Options struct {
	DBPath   string
	LogLevel string

	// Prices overrides the price source used by refresh-prices. Nil uses Yahoo Finance.
	Prices service.PriceSource
}

// app is the wiring a command runs against. It is built lazily so that commands such as
// token never touch the database.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	db     *sql.DB

	memos       *service.MemoService
	reviews     *service.ReviewService
	investments *service.InvestmentService
	analysts    *service.AnalystService
	refresh     *service.PriceRefreshService
}

func openApp(ctx context.Context, opts *Options) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.Database.Path = opts.DBPath
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger := logging.New(cfg.Logging)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if _, err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	memoRepo := repository.NewMemoRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)

	prices := opts.Prices
	if prices == nil {
		prices = yahoo.NewFinanceClient()
	}

	investments := service.NewInvestmentService(investmentRepo, memoRepo, logger)
	return &app{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		memos:       service.NewMemoService(db, memoRepo),
		reviews:     service.NewReviewService(db, memoRepo, investmentRepo, logger),
		investments: investments,
		analysts:    service.NewAnalystService(db, memoRepo, investmentRepo),
		refresh:     service.NewPriceRefreshService(investments, prices, cfg.Prices.Concurrency, logger),
	}, nil
}

// withApp runs fn against a freshly opened app and closes the database afterwards.
func withApp(opts *Options, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer a.db.Close()
		return fn(cmd, args, a)
	}
}

// NewRootCmd builds the reviewctl command tree.
func NewRootCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviewctl",
		Short: "Operate the research inbox: import memos, review them and track investments",
		Long: `reviewctl works directly on the research inbox database.

It provides tools for:
  - Applying schema migrations
  - Importing generated memos from YAML or JSON files
  - Approving and rejecting memos from the terminal
  - Closing investments and refreshing their prices
  - Printing the analyst leaderboard
  - Issuing time tokens for the ingestion API`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (defaults to DB_PATH or the config file)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newImportCmd(opts),
		newInboxCmd(opts),
		newApproveCmd(opts),
		newRejectCmd(opts),
		newCloseCmd(opts),
		newRefreshPricesCmd(opts),
		newLeaderboardCmd(opts),
		newTokenCmd(),
	)

	return cmd
}

// Execute runs reviewctl with the process arguments.
func Execute() error {
	return NewRootCmd(&Options{}).ExecuteContext(context.Background())
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
