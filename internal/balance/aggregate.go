// Package balance partitions debt edges into the current user's owed/owe
// views and computes the net position.
package balance

import (
	"github.com/golang/glog"
	"github.com/shopspring/decimal"

	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

// Summary is the derived balance view for one user over one edge snapshot.
//
// OwedToMe holds edges whose creditor is the current user, IOwe edges whose
// debtor is. The two are disjoint because an edge never has the same user
// on both sides. Edges touching neither side are excluded; the authority
// should not send them for a per-user balance query, so they are logged.
type Summary struct {
	CurrentUser string
	OwedToMe    []domain.DebtEdge
	IOwe        []domain.DebtEdge
	TotalOwed   decimal.Decimal
	TotalOwe    decimal.Decimal
	Net         decimal.Decimal
}

// Aggregate builds a Summary for currentUser from one edge snapshot.
func Aggregate(currentUser string, edges []domain.DebtEdge) Summary {
	s := Summary{
		CurrentUser: currentUser,
		TotalOwed:   decimal.Zero,
		TotalOwe:    decimal.Zero,
	}
	for _, e := range edges {
		switch {
		case e.FromUser == e.ToUser:
			glog.Warningf("balance: dropping self-loop edge %s -> %s", e.FromUser, e.ToUser)
		case !e.Amount.IsPositive():
			glog.Warningf("balance: dropping non-positive edge %s -> %s amount=%s", e.FromUser, e.ToUser, e.Amount)
		case e.ToUser == currentUser:
			s.OwedToMe = append(s.OwedToMe, e)
			s.TotalOwed = s.TotalOwed.Add(e.Amount)
		case e.FromUser == currentUser:
			s.IOwe = append(s.IOwe, e)
			s.TotalOwe = s.TotalOwe.Add(e.Amount)
		default:
			glog.Warningf("balance: edge %s -> %s does not involve current user %s", e.FromUser, e.ToUser, currentUser)
		}
	}
	s.Net = s.TotalOwed.Sub(s.TotalOwe)
	return s
}

// Settled reports whether there are no outstanding balances in either
// direction. A settled summary renders as "all settled up", not an error.
func (s Summary) Settled() bool {
	return len(s.OwedToMe) == 0 && len(s.IOwe) == 0
}
