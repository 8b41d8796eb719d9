package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// signin <recovery-file>: decrypt recovery material and start a session.
func signinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signin <recovery-file>",
		Short: "Sign in with a recovery file and passphrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			id, _, err := appCtx.Identity.SignIn(blob, passphrase)
			if err != nil {
				return err
			}
			fmt.Println("signed in as", id.EdPub.Hex())
			return nil
		},
	}
}
