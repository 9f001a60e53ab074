package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ujjwal0563/splitwise-cli/internal/domain"
	"github.com/ujjwal0563/splitwise-cli/internal/settle"
)

// NewSettleCommand creates the settle command tree.
func NewSettleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Record and delete settlements",
	}

	cmd.AddCommand(newSettleSuggestCommand(rootOpts))
	cmd.AddCommand(newSettleRecordCommand(rootOpts))
	cmd.AddCommand(newSettleDeleteCommand(rootOpts))

	return cmd
}

func newSettleSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct{ Group string }{}

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List a group's outstanding debts as numbered suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.LoadGroup(cmd.Context(), opts.Group)
			if err != nil {
				return actionError(err)
			}
			if snap.Degraded {
				app.out.Warn("warning: some data could not be fetched")
			}

			forms := make([]settle.Form, 0, len(snap.Balances))
			for _, e := range snap.Balances {
				forms = append(forms, settle.Prefill(e))
			}
			return app.out.Emit(forms, func(w io.Writer) {
				if len(forms) == 0 {
					io.WriteString(w, "All settled up!\n")
					return
				}
				for i, f := range forms {
					fmt.Fprintf(w, "  %d. %s pays %s $%s\n", i+1,
						snap.Roster.NameOf(f.PaidBy), snap.Roster.NameOf(f.PaidTo),
						f.Amount.StringFixed(2))
				}
			})
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "", "group id (required)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func newSettleRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct {
		Group   string
		Suggest int
		From    string
		To      string
		Amount  string
	}{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a settlement payment",
		Long: `Record a settlement payment in a group.

Either pick a suggestion by number (see "settle suggest"), which prefills
payer, payee, and the full outstanding amount, or give --from/--to/--amount
explicitly. A prefilled amount may be overridden with --amount to record a
partial payment; whether a payment overpays is for the server to decide.

Example:
  splitwise settle record --group g1 --suggestion 1
  splitwise settle record --group g1 --suggestion 1 --amount 5.00
  splitwise settle record --group g1 --from alice --to bob --amount 20.00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			var form settle.Form
			switch {
			case opts.Suggest > 0:
				snap, err := app.coord.LoadGroup(cmd.Context(), opts.Group)
				if err != nil {
					return actionError(err)
				}
				if opts.Suggest > len(snap.Balances) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("suggestion %d does not exist; the group has %d outstanding debts",
							opts.Suggest, len(snap.Balances)))
				}
				form = settle.Prefill(snap.Balances[opts.Suggest-1])
				if opts.Amount != "" {
					form.Amount, err = parseAmount(opts.Amount)
					if err != nil {
						return err
					}
				}
			case opts.From != "" || opts.To != "" || opts.Amount != "":
				amount, err := parseAmount(opts.Amount)
				if err != nil {
					return err
				}
				form = settle.Form{PaidBy: opts.From, PaidTo: opts.To, Amount: amount}
			default:
				return NewExitError(ExitCommandError, "give either --suggestion or --from/--to/--amount")
			}

			snap, err := app.coord.RecordSettlement(cmd.Context(), opts.Group, form)
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Settlement recorded: %s paid %s %s.",
				snap.Roster.NameOf(form.PaidBy), snap.Roster.NameOf(form.PaidTo),
				domain.FormatAmount(form.Amount))
			return emitGroupSnapshot(app, snap)
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "", "group id (required)")
	cmd.Flags().IntVar(&opts.Suggest, "suggestion", 0, "settle the Nth suggested debt")
	cmd.Flags().StringVar(&opts.From, "from", "", "payer user id")
	cmd.Flags().StringVar(&opts.To, "to", "", "payee user id")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "amount paid")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewExitError(ExitCommandError, fmt.Sprintf("invalid amount %q", s))
	}
	return d, nil
}

func newSettleDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct{ Group string }{}

	cmd := &cobra.Command{
		Use:   "delete <settlement-id>",
		Short: "Delete a settlement record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.DeleteSettlement(cmd.Context(), opts.Group, args[0])
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Settlement deleted.")
			return emitGroupSnapshot(app, snap)
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "", "group id (required)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}
