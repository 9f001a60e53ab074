package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ujjwal0563/splitwise-cli/internal/coordinator"
	"github.com/ujjwal0563/splitwise-cli/internal/domain"
	"github.com/ujjwal0563/splitwise-cli/internal/relations"
)

// NewFriendsCommand creates the friends command tree.
func NewFriendsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Manage friendships and friend requests",
	}

	cmd.AddCommand(newFriendsListCommand(rootOpts))
	cmd.AddCommand(newFriendsSearchCommand(rootOpts))
	cmd.AddCommand(newFriendsRequestCommand(rootOpts))
	cmd.AddCommand(newFriendsAcceptCommand(rootOpts))
	cmd.AddCommand(newFriendsRejectCommand(rootOpts))
	cmd.AddCommand(newFriendsRemoveCommand(rootOpts))

	return cmd
}

// friendsView is the structured form of the friends snapshot.
type friendsView struct {
	Friends  []domain.FriendshipEdge `json:"friends" yaml:"friends"`
	Incoming []domain.FriendshipEdge `json:"incoming" yaml:"incoming"`
	Outgoing []domain.FriendshipEdge `json:"outgoing" yaml:"outgoing"`
	Degraded bool                    `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

func newFriendsView(snap coordinator.FriendsSnapshot) friendsView {
	return friendsView{
		Friends:  snap.Graph.Friends(),
		Incoming: snap.Graph.Incoming(),
		Outgoing: snap.Graph.Outgoing(),
		Degraded: snap.Degraded,
	}
}

func emitFriends(app *app, snap coordinator.FriendsSnapshot) error {
	if snap.Degraded {
		app.out.Warn("warning: some data could not be fetched; showing empty lists")
	}
	return app.out.Emit(newFriendsView(snap), func(w io.Writer) {
		renderFriends(w, snap)
	})
}

func newFriendsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List friends, incoming requests, and sent requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}
			return emitFriends(app, app.coord.LoadFriends(cmd.Context()))
		},
	}
}

func newFriendsSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct{ Limit int }{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find people to add (never shows existing relationships)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			limit := opts.Limit
			if limit == 0 {
				limit = app.cfg.SearchLimit
			}

			snap := app.coord.LoadFriends(cmd.Context())
			if snap.Degraded {
				app.out.Warn("warning: some data could not be fetched; search unavailable")
			}
			results := snap.Graph.Search(args[0], limit)
			return app.out.Emit(results, func(w io.Writer) {
				if len(results) == 0 {
					io.WriteString(w, "No matches.\n")
					return
				}
				renderUsers(w, results)
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum results (default from config)")
	return cmd
}

func newFriendsRequestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "request <user-id>",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.SendFriendRequest(cmd.Context(), args[0])
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Friend request sent.")
			return emitFriends(app, snap)
		},
	}
}

func newFriendsAcceptCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <request-id>",
		Short: "Accept an incoming friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.AcceptFriendRequest(cmd.Context(), args[0])
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Friend request accepted.")
			return emitFriends(app, snap)
		},
	}
}

func newFriendsRejectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject an incoming friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.RejectFriendRequest(cmd.Context(), args[0])
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Friend request rejected.")
			return emitFriends(app, snap)
		},
	}
}

func newFriendsRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <user-id>",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			// Resolve the peer to the friendship edge the delete wants.
			snap := app.coord.LoadFriends(cmd.Context())
			peer := args[0]
			if snap.Graph.Classify(peer) != relations.RelationFriend {
				return NewExitError(ExitFailure, fmt.Sprintf("%s is not in your friends list", peer))
			}
			edge, ok := snap.Graph.Edge(peer)
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("%s is not in your friends list", peer))
			}

			refreshed, err := app.coord.RemoveFriend(cmd.Context(), edge.ID, snap.Roster.NameOf(peer))
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Friend removed.")
			return emitFriends(app, refreshed)
		},
	}
}
