package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hushpost/internal/crypto"
	"hushpost/internal/recovery"
)

// recovery new <file>: generate a fresh identity and write its recovery file.
func recoveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Manage recovery material",
	}
	cmd.AddCommand(recoveryNewCmd())
	return cmd
}

func recoveryNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <file>",
		Short: "Generate a new identity and write its recovery file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			seed, err := recovery.NewSeed()
			if err != nil {
				return err
			}
			id, err := crypto.IdentityFromSeed(seed)
			if err != nil {
				return err
			}
			blob, err := recovery.Seal(seed, passphrase)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], blob, 0o600); err != nil {
				return err
			}
			fmt.Println("recovery file written:", args[0])
			fmt.Println("public key:", id.EdPub.Hex())
			return nil
		},
	}
}
