// Package settle maps suggested debt edges onto settlement commands.
package settle

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

// Form is a settlement ready to submit: who paid whom how much.
type Form struct {
	PaidBy string
	PaidTo string
	Amount decimal.Decimal
}

// Prefill builds a Form from a suggested edge: the debtor pays the creditor
// the full outstanding amount, rounded to display precision.
func Prefill(edge domain.DebtEdge) Form {
	return Form{
		PaidBy: edge.FromUser,
		PaidTo: edge.ToUser,
		Amount: edge.Amount.Round(2),
	}
}

// Matches reports whether a submitted form exactly cancels a suggested
// edge: payer, payee, and amount all equal. No fuzzy matching.
func Matches(f Form, edge domain.DebtEdge) bool {
	return f.PaidBy == edge.FromUser &&
		f.PaidTo == edge.ToUser &&
		f.Amount.Equal(edge.Amount)
}

// Validate checks the local invariants of a form before submission. It does
// not check the amount against any outstanding edge: partial settlements
// and overpayments are forwarded as-is, and the authority rules on them.
func (f Form) Validate() error {
	switch {
	case f.PaidBy == "":
		return errors.New("payer is required")
	case f.PaidTo == "":
		return errors.New("payee is required")
	case f.PaidBy == f.PaidTo:
		return errors.New("payer and payee must differ")
	case !f.Amount.IsPositive():
		return errors.New("amount must be positive")
	}
	return nil
}
