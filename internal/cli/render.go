package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ujjwal0563/splitwise-cli/internal/coordinator"
	"github.com/ujjwal0563/splitwise-cli/internal/directory"
	"github.com/ujjwal0563/splitwise-cli/internal/domain"
	"github.com/ujjwal0563/splitwise-cli/internal/settle"
)

const dateLayout = "Jan 2, 2006"

// recentActivityLimit caps the dashboard's activity feed, mirroring the
// web client.
const recentActivityLimit = 8

// balanceLine is one row of an owed/owe list in structured output.
type balanceLine struct {
	UserID string `json:"user_id" yaml:"user_id"`
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
}

// dashboardView is the structured form of the balance view.
type dashboardView struct {
	Net       string        `json:"net" yaml:"net"`
	TotalOwed string        `json:"total_owed" yaml:"total_owed"`
	TotalOwe  string        `json:"total_owe" yaml:"total_owe"`
	Settled   bool          `json:"settled" yaml:"settled"`
	OwedToMe  []balanceLine `json:"owed_to_me" yaml:"owed_to_me"`
	IOwe      []balanceLine `json:"i_owe" yaml:"i_owe"`
	Degraded  bool          `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

func newDashboardView(snap coordinator.DashboardSnapshot) dashboardView {
	v := dashboardView{
		Net:       snap.Balances.Net.StringFixed(2),
		TotalOwed: snap.Balances.TotalOwed.StringFixed(2),
		TotalOwe:  snap.Balances.TotalOwe.StringFixed(2),
		Settled:   snap.Balances.Settled(),
		OwedToMe:  []balanceLine{},
		IOwe:      []balanceLine{},
		Degraded:  snap.Degraded,
	}
	for _, e := range snap.Balances.OwedToMe {
		v.OwedToMe = append(v.OwedToMe, balanceLine{
			UserID: e.FromUser,
			Name:   snap.Roster.NameOf(e.FromUser),
			Amount: e.Amount.StringFixed(2),
		})
	}
	for _, e := range snap.Balances.IOwe {
		v.IOwe = append(v.IOwe, balanceLine{
			UserID: e.ToUser,
			Name:   snap.Roster.NameOf(e.ToUser),
			Amount: e.Amount.StringFixed(2),
		})
	}
	return v
}

func renderDashboard(w io.Writer, snap coordinator.DashboardSnapshot) {
	s := snap.Balances
	fmt.Fprintf(w, "Net balance: %s\n", domain.FormatNet(s.Net))
	switch {
	case s.Settled():
		fmt.Fprintln(w, "You're all settled up!")
	case s.Net.IsPositive():
		fmt.Fprintf(w, "%s you money overall.\n", people(len(s.OwedToMe), "owes", "owe"))
	case s.Net.IsNegative():
		fmt.Fprintf(w, "You owe money to %d %s overall.\n", len(s.IOwe), plural(len(s.IOwe), "person", "people"))
	default:
		fmt.Fprintln(w, "Your debts cancel out exactly.")
	}

	if len(s.OwedToMe) > 0 {
		fmt.Fprintf(w, "\nOwed to you (%s total):\n", domain.FormatAmount(s.TotalOwed))
		for _, e := range s.OwedToMe {
			fmt.Fprintf(w, "  %-20s %s\n", snap.Roster.NameOf(e.FromUser), domain.FormatAmount(e.Amount))
		}
	}
	if len(s.IOwe) > 0 {
		fmt.Fprintf(w, "\nYou owe (%s total):\n", domain.FormatAmount(s.TotalOwe))
		for _, e := range s.IOwe {
			fmt.Fprintf(w, "  %-20s %s\n", snap.Roster.NameOf(e.ToUser), domain.FormatAmount(e.Amount))
		}
	}

	if len(snap.Settlements) > 0 {
		fmt.Fprintln(w, "\nRecent activity:")
		for _, s := range recentSettlements(snap.Settlements, recentActivityLimit) {
			renderSettlementLine(w, s, snap.Roster)
		}
	}
}

// recentSettlements returns up to limit settlements, newest first.
func recentSettlements(all []domain.Settlement, limit int) []domain.Settlement {
	out := make([]domain.Settlement, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func renderSettlementLine(w io.Writer, s domain.Settlement, roster *directory.Directory) {
	fmt.Fprintf(w, "  %s  %s paid %s %s\n",
		formatDate(s.CreatedAt),
		roster.NameOf(s.PaidBy),
		roster.NameOf(s.PaidTo),
		domain.FormatAmount(s.Amount))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format(dateLayout)
}

func renderFriends(w io.Writer, snap coordinator.FriendsSnapshot) {
	g := snap.Graph

	friends := g.Friends()
	fmt.Fprintf(w, "Friends (%d):\n", len(friends))
	if len(friends) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range friends {
		fmt.Fprintf(w, "  %s\n", peerLabel(e, snap.Roster))
	}

	incoming := g.Incoming()
	fmt.Fprintf(w, "\nRequests for you (%d):\n", len(incoming))
	if len(incoming) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range incoming {
		fmt.Fprintf(w, "  %s  [request %s]\n", peerLabel(e, snap.Roster), e.ID)
	}

	outgoing := g.Outgoing()
	fmt.Fprintf(w, "\nSent requests (%d):\n", len(outgoing))
	if len(outgoing) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range outgoing {
		fmt.Fprintf(w, "  %s  [request %s]\n", peerLabel(e, snap.Roster), e.ID)
	}
}

func peerLabel(e domain.FriendshipEdge, roster *directory.Directory) string {
	name := roster.NameOf(e.PeerID())
	if e.User != nil && e.User.Email != "" && e.User.Email != name {
		return fmt.Sprintf("%s <%s>", name, e.User.Email)
	}
	return name
}

func renderGroup(w io.Writer, snap coordinator.GroupSnapshot) {
	g := snap.Group
	fmt.Fprintf(w, "%s  [%s]\n", g.Name, g.ID)

	fmt.Fprintf(w, "\nMembers (%d):\n", len(g.Members))
	for _, m := range g.Members {
		marker := ""
		if m == g.CreatedBy {
			marker = "  (owner)"
		}
		fmt.Fprintf(w, "  %s%s\n", snap.Roster.NameOf(m), marker)
	}

	fmt.Fprintf(w, "\nExpenses (%d):\n", len(snap.Expenses))
	if len(snap.Expenses) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range snap.Expenses {
		fmt.Fprintf(w, "  %s  %-24s %s  paid by %s  [%s]\n",
			formatDate(e.CreatedAt), e.Description, domain.FormatAmount(e.Amount),
			snap.Roster.NameOf(e.PaidBy), e.ID)
	}

	fmt.Fprintln(w, "\nBalances:")
	if len(snap.Balances) == 0 {
		fmt.Fprintln(w, "  All settled up!")
	}
	for i, e := range snap.Balances {
		form := settle.Prefill(e)
		fmt.Fprintf(w, "  %d. %s owes %s %s\n", i+1,
			snap.Roster.NameOf(e.FromUser), snap.Roster.NameOf(e.ToUser),
			"$"+form.Amount.StringFixed(2))
	}

	fmt.Fprintf(w, "\nSettlements (%d):\n", len(snap.Settlements))
	if len(snap.Settlements) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, s := range snap.Settlements {
		fmt.Fprintf(w, "  %s  %s paid %s %s  [%s]\n",
			formatDate(s.CreatedAt), snap.Roster.NameOf(s.PaidBy),
			snap.Roster.NameOf(s.PaidTo), domain.FormatAmount(s.Amount), s.ID)
	}
}

func renderGroupList(w io.Writer, groups []domain.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No groups yet.")
		return
	}
	fmt.Fprintf(w, "Groups (%d):\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(w, "  %-24s %d members  [%s]\n", g.Name, len(g.Members), g.ID)
	}
}

func renderUsers(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	for _, u := range users {
		label := u.Name
		if label == "" {
			label = u.Email
		}
		fmt.Fprintf(w, "  %-20s %-28s [%s]\n", label, u.Email, u.ID)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func people(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 person %s", one)
	}
	return fmt.Sprintf("%d people %s", n, many)
}
