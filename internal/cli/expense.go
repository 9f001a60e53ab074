package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ujjwal0563/splitwise-cli/internal/api"
)

// NewExpenseCommand creates the expense command tree.
func NewExpenseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Log and delete shared expenses",
	}

	cmd.AddCommand(newExpenseAddCommand(rootOpts))
	cmd.AddCommand(newExpenseDeleteCommand(rootOpts))

	return cmd
}

func newExpenseAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct {
		Group       string
		Amount      string
		Description string
		PaidBy      string
		Splits      []string
	}{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an expense in a group",
		Long: `Log an expense in a group.

Without --split the amount is divided equally across members. Custom
shares are given as repeated --split user-id=amount flags and must sum to
the total; the server validates the sum.

Example:
  splitwise expense add --group g1 --amount 30 --description "Dinner" --paid-by alice
  splitwise expense add --group g1 --amount 30 --description "Dinner" --paid-by alice \
      --split alice=10 --split bob=20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			amount, err := decimal.NewFromString(opts.Amount)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid amount %q", opts.Amount))
			}
			if !amount.IsPositive() {
				return NewExitError(ExitCommandError, "amount must be positive")
			}

			paidBy := opts.PaidBy
			if paidBy == "" {
				paidBy = app.coord.CurrentUser()
			}

			req := api.AddExpenseRequest{
				PaidBy:      paidBy,
				Amount:      amount,
				Description: opts.Description,
				SplitsType:  "equal",
			}
			if len(opts.Splits) > 0 {
				req.SplitsType = "custom"
				req.Splits, err = parseSplits(opts.Splits)
				if err != nil {
					return NewExitError(ExitCommandError, err.Error())
				}
			}

			snap, err := app.coord.AddExpense(cmd.Context(), opts.Group, req)
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Expense logged.")
			return emitGroupSnapshot(app, snap)
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "", "group id (required)")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "total amount (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "what the expense was for (required)")
	cmd.Flags().StringVar(&opts.PaidBy, "paid-by", "", "who paid (defaults to you)")
	cmd.Flags().StringArrayVar(&opts.Splits, "split", nil, "custom share as user-id=amount (repeatable)")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func parseSplits(raw []string) ([]api.ExpenseSplitInput, error) {
	splits := make([]api.ExpenseSplitInput, 0, len(raw))
	for _, s := range raw {
		user, amountStr, ok := strings.Cut(s, "=")
		if !ok || user == "" {
			return nil, fmt.Errorf("invalid split %q: want user-id=amount", s)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil || !amount.IsPositive() {
			return nil, fmt.Errorf("invalid split amount in %q", s)
		}
		splits = append(splits, api.ExpenseSplitInput{UserID: user, Amount: amount})
	}
	return splits, nil
}

func newExpenseDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct{ Group string }{}

	cmd := &cobra.Command{
		Use:   "delete <expense-id>",
		Short: "Delete an expense (balances are recomputed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			// Look the expense up so the confirmation names it.
			description := args[0]
			if snap, err := app.coord.LoadGroup(cmd.Context(), opts.Group); err == nil {
				for _, e := range snap.Expenses {
					if e.ID == args[0] {
						description = e.Description
						break
					}
				}
			}

			snap, err := app.coord.DeleteExpense(cmd.Context(), opts.Group, args[0], description)
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Expense deleted.")
			return emitGroupSnapshot(app, snap)
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "", "group id (required)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}
