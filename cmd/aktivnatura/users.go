package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	aktivnatura "github.com/Juraj2254/pd-aktivnatura-blog-website"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect accounts and manage the admin role",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List registered users and their roles",
			Args:    cobra.NoArgs,
			RunE:    runUsersList,
		},
		&cobra.Command{
			Use:   "grant <email>",
			Short: "Give a user the admin role",
			Args:  cobra.ExactArgs(1),
			RunE:  runUsersGrant,
		},
		&cobra.Command{
			Use:   "revoke <email>",
			Short: "Take the admin role away from a user",
			Args:  cobra.ExactArgs(1),
			RunE:  runUsersRevoke,
		},
	)
	return cmd
}

func runUsersList(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.ListUsers(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tROLES\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Email, strings.Join(u.Roles, ","), u.CreatedAt)
	}
	return w.Flush()
}

func runUsersGrant(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	u, err := lookupUser(cmd, store, args[0])
	if err != nil {
		return err
	}
	if err := store.GrantRole(cmd.Context(), u.ID, aktivnatura.RoleAdmin); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", u.Email)
	return nil
}

func runUsersRevoke(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	u, err := lookupUser(cmd, store, args[0])
	if err != nil {
		return err
	}
	err = store.RevokeRole(cmd.Context(), u.ID, aktivnatura.RoleAdmin)
	if errors.Is(err, aktivnatura.ErrLastAdmin) {
		return fmt.Errorf("%s is the last admin; grant the role to someone else first", u.Email)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer an admin\n", u.Email)
	return nil
}

func lookupUser(cmd *cobra.Command, store *aktivnatura.Store, email string) (aktivnatura.User, error) {
	u, err := store.GetUserByEmail(cmd.Context(), email)
	if errors.Is(err, aktivnatura.ErrNotFound) {
		return u, fmt.Errorf("no user with email %q", email)
	}
	return u, err
}
