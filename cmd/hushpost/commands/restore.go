package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// restore: resume the persisted session without the passphrase.
func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Resume the stored session without a passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resume()
			if err != nil {
				return err
			}
			fmt.Println("session restored for", id.EdPub.Hex())
			return nil
		},
	}
}
