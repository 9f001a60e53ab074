package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

// NewProfileCommand creates the profile command tree.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	cmd.AddCommand(newProfileShowCommand(rootOpts))
	cmd.AddCommand(newProfileUpdateCommand(rootOpts))

	return cmd
}

func renderUser(w io.Writer, u domain.User) {
	fmt.Fprintf(w, "Name:  %s\n", u.Name)
	fmt.Fprintf(w, "Email: %s\n", u.Email)
	fmt.Fprintf(w, "ID:    %s\n", u.ID)
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			u, err := app.coord.Profile(cmd.Context())
			if err != nil {
				return actionError(err)
			}
			return app.out.Emit(u, func(w io.Writer) {
				renderUser(w, u)
			})
		},
	}
}

func newProfileUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := struct{ Name string }{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			u, err := app.coord.UpdateProfile(cmd.Context(), opts.Name)
			if err != nil {
				return actionError(err)
			}
			app.out.Warn("Profile updated.")
			return app.out.Emit(u, func(w io.Writer) {
				renderUser(w, u)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// NewUsersCommand creates the users command: the full roster.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp(cmd)
			if err != nil {
				return err
			}

			users, err := app.coord.Roster(cmd.Context())
			if err != nil {
				return actionError(err)
			}
			sort.Slice(users, func(i, j int) bool {
				if users[i].Name != users[j].Name {
					return users[i].Name < users[j].Name
				}
				return users[i].ID < users[j].ID
			})
			return app.out.Emit(users, func(w io.Writer) {
				renderUsers(w, users)
			})
		},
	}
}
