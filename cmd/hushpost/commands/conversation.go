package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hushpost/internal/domain"
)

// conversation <peer>: print the full reconstructed conversation.
func conversationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conversation <peer-pubkey-hex>",
		Short: "Show the conversation with a peer",
		Args:  cobra.ExactArgs(1),
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
			msgs, err := appCtx.Messages.GetConversation(cmd.Context(), peer)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				printMessage(m)
			}
			return nil
		},
	}
}

func printMessage(m domain.ChatMessage) {
	who := "them"
	if m.IsOwn {
		who = "me"
	}
	flag := ""
	if !m.Verified {
		flag = " [unverified]"
	}
	ts := time.Unix(m.Timestamp, 0).UTC().Format(time.RFC3339)
	fmt.Printf("%s %-4s %s%s\n", ts, who, m.Content, flag)
}
