package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"hushpost/internal/domain"
)

// send <peer> <message>: encrypt, sign, and store a message for <peer>.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer-pubkey-hex> <message>",
		Short: "Encrypt and store a message for a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireHomeserver(); err != nil {
				return err
			}
			peer, err := domain.ParsePublicKey(args[0])
			if err != nil {
				return err
			}
			if _, err := resume(); err != nil {
				return err
			}
			rec, err := appCtx.Messages.Send(cmd.Context(), peer, []byte(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("sent at %d\n", rec.Timestamp)
			return nil
		},
	}
}
