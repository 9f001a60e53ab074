package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewBalanceCommand creates the balance command: the dashboard view.
func NewBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show your net balance and who owes whom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap := app.coord.LoadDashboard(cmd.Context())
			if snap.Degraded {
				app.out.Warn("warning: some data could not be fetched; showing empty balances")
			}
			return app.out.Emit(newDashboardView(snap), func(w io.Writer) {
				renderDashboard(w, snap)
			})
		},
	}
}

// NewSettlementsCommand creates the settlements command: the activity feed.
func NewSettlementsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct{ Limit int }{}

	cmd := &cobra.Command{
		Use:   "settlements",
		Short: "Show your settlement history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap := app.coord.LoadDashboard(cmd.Context())
			if snap.Degraded {
				app.out.Warn("warning: some data could not be fetched; showing empty history")
			}
			settlements := recentSettlements(snap.Settlements, opts.Limit)
			return app.out.Emit(settlements, func(w io.Writer) {
				if len(settlements) == 0 {
					io.WriteString(w, "No settlements yet.\n")
					return
				}
				for _, s := range settlements {
					renderSettlementLine(w, s, snap.Roster)
				}
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many records (0 = all)")
	return cmd
}
