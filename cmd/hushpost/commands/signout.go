package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// signout: drop the in-memory identity and the persisted session token.
func signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Discard the session and cached keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Identity.SignOut(); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}
