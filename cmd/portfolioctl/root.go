package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/bootstrap"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/mock"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/display"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/logger"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/portfolio"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

type cli struct {
	out      io.Writer
	source   string
	url      string
	db       string
	logLevel string

	dashboard *service.DashboardService
	closeFn   func() error
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:          "portfolioctl",
		Short:        "Inspect the portfolio dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if c.closeFn != nil {
				return c.closeFn()
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVar(&c.source, "source", "", "data source: mock, remote or sql (default from DATA_SOURCE)")
	root.PersistentFlags().StringVar(&c.url, "url", "", "base URL of the remote API (default from REMOTE_API_URL)")
	root.PersistentFlags().StringVar(&c.db, "db", "", "SQLite database path (default from DB_PATH)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "error", "log level")

	root.AddCommand(c.summaryCmd(), c.allocationCmd(), c.positionsCmd())
	return root
}

// open resolves the configuration, applies the flag overrides and loads the
// dashboard once.
func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.source != "" {
		cfg.DataSource.Kind = c.source
	}
	if c.url != "" {
		cfg.DataSource.RemoteURL = c.url
	}
	if c.db != "" {
		cfg.Database.Path = c.db
	}

	log := logger.NewWithWriter(logger.Config{Level: c.logLevel}, cmd.ErrOrStderr())

	src, closeFn, err := bootstrap.OpenSource(cfg, log)
	if err != nil {
		return err
	}
	c.closeFn = closeFn

	confirmer, err := service.NewConfirmer("", 0)
	if err != nil {
		return err
	}
	c.dashboard = service.NewDashboardService(src, mock.Dataset, confirmer, nil, log)
	if _, err := c.dashboard.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	return nil
}

func (c *cli) noteFallback() {
	if c.dashboard.State().Degraded {
		fmt.Fprintln(c.out, "note: data source unavailable, showing the fallback dataset")
	}
}

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the metric cards",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c.noteFallback()
			s := c.dashboard.Summary()

			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total value\t%s\n", display.EUR(s.TotalValue))
			fmt.Fprintf(w, "Invested\t%s\n", display.EUR(s.TotalInvested))
			fmt.Fprintf(w, "Profit/loss\t%s (%s)\n", display.SignedEUR(s.TotalProfitLoss), display.Percent(s.TotalProfitLossPercentage))
			fmt.Fprintf(w, "Active positions\t%d\n", s.ActivePositions)
			return w.Flush()
		},
	}
}

func (c *cli) allocationCmd() *cobra.Command {
	var groupBy, assetClass string

	cmd := &cobra.Command{
		Use:   "allocation",
		Short: "Print the allocation buckets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			g, err := model.ParseGroupBy(groupBy)
			if err != nil {
				return err
			}
			buckets, err := c.dashboard.Allocation(g, assetClass)
			if err != nil {
				return err
			}

			c.noteFallback()
			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE\tSHARE\tPOSITIONS")
			for _, b := range buckets {
				fmt.Fprintf(w, "%s\t%s\t%s%%\t%d\n", b.Key, display.EUR(b.Value), b.Percentage.StringFixed(2), b.Count)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&groupBy, "group-by", "sector", "sector or assetClass")
	cmd.Flags().StringVar(&assetClass, "asset-class", "", "only include one asset class")
	return cmd
}

func (c *cli) positionsCmd() *cobra.Command {
	var portfolioID string

	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Print the positions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			positions, err := c.dashboard.Positions(portfolioID)
			if err != nil {
				return err
			}

			c.noteFallback()
			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tNAME\tCLASS\tQUANTITY\tPRICE\tVALUE\tP/L")
			for _, p := range positions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s (%s)\n",
					p.Symbol, p.Name, p.Class(), p.Quantity.String(),
					display.EUR(p.CurrentPrice), display.EUR(p.MarketValue),
					display.SignedEUR(p.ProfitLoss), display.Percent(p.ProfitLossPercentage))
			}
			total := portfolio.SummarizePositions(positions)
			fmt.Fprintf(w, "TOTAL\t\t\t\t\t%s\t%s (%s)\n",
				display.EUR(total.TotalValue), display.SignedEUR(total.TotalProfitLoss), display.Percent(total.TotalProfitLossPercentage))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "only list positions of this portfolio id")
	return cmd
}
