package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/ujjwal0563/splitwise-cli/internal/coordinator"
)

// NewGroupsCommand creates the groups command tree.
func NewGroupsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage expense groups",
	}

	cmd.AddCommand(newGroupsListCommand(rootOpts))
	cmd.AddCommand(newGroupsCreateCommand(rootOpts))
	cmd.AddCommand(newGroupsShowCommand(rootOpts))
	cmd.AddCommand(newGroupsRenameCommand(rootOpts))
	cmd.AddCommand(newGroupsDeleteCommand(rootOpts))
	cmd.AddCommand(newGroupsAddMemberCommand(rootOpts))
	cmd.AddCommand(newGroupsRemoveMemberCommand(rootOpts))

	return cmd
}

func emitGroupSnapshot(app *app, snap coordinator.GroupSnapshot) error {
	if snap.Degraded {
		app.out.Warn("warning: some data could not be fetched; showing empty group view")
	}
	return app.out.Emit(snap, func(w io.Writer) {
		renderGroup(w, snap)
	})
}

func newGroupsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			groups, degraded := app.coord.LoadGroups(cmd.Context())
			if degraded {
				app.out.Warn("warning: groups could not be fetched")
			}
			return app.out.Emit(groups, func(w io.Writer) {
				renderGroupList(w, groups)
			})
		},
	}
}

func newGroupsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			created, groups, err := app.coord.CreateGroup(cmd.Context(), args[0])
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Group %q created with id %s.", created.Name, created.ID)
			return app.out.Emit(groups, func(w io.Writer) {
				renderGroupList(w, groups)
			})
		},
	}
}

func newGroupsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show a group's members, expenses, balances, and settlements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.LoadGroup(cmd.Context(), args[0])
			if errors.Is(err, coordinator.ErrNotFound) {
				// The detail no longer exists; fall back to the list instead
				// of a broken page.
				app.out.Warn("Group %s not found; showing your groups instead.", args[0])
				groups, _ := app.coord.LoadGroups(cmd.Context())
				return app.out.Emit(groups, func(w io.Writer) {
					renderGroupList(w, groups)
				})
			}
			if err != nil {
				return actionError(err)
			}
			return emitGroupSnapshot(app, snap)
		},
	}
}

func newGroupsRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <group-id> <name>",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.RenameGroup(cmd.Context(), args[0], args[1])
			if err != nil {
				return actionError(err)
			}
			return emitGroupSnapshot(app, snap)
		},
	}
}

func newGroupsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a group and all its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			// Fetch the name for an honest confirmation prompt.
			name := args[0]
			if snap, err := app.coord.LoadGroup(cmd.Context(), args[0]); err == nil && !snap.Degraded {
				name = snap.Group.Name
			}

			groups, err := app.coord.DeleteGroup(cmd.Context(), args[0], name)
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Group deleted.")
			return app.out.Emit(groups, func(w io.Writer) {
				renderGroupList(w, groups)
			})
		},
	}
}

func newGroupsAddMemberCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <group-id> <user-id>",
		Short: "Add a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.AddMember(cmd.Context(), args[0], args[1])
			if err != nil {
				return actionError(err)
			}
			return emitGroupSnapshot(app, snap)
		},
	}
}

func newGroupsRemoveMemberCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <group-id> <user-id>",
		Short: "Remove a user from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			snap, err := app.coord.LoadGroup(cmd.Context(), args[0])
			if err != nil {
				return actionError(err)
			}
			refreshed, err := app.coord.RemoveMember(cmd.Context(), args[0], args[1], snap.Roster.NameOf(args[1]))
			if err != nil {
				return actionError(err)
			}
			return emitGroupSnapshot(app, refreshed)
		},
	}
}
