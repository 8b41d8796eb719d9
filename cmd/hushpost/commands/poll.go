package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hushpost/internal/domain"
)

const cursorsFile = "cursors.json"

// poll <peer>...: print records not yet seen by this client.
//
// The protocol keeps no read state; this command owns its cursors, stored
// per counterpart in the home directory, and advances them after a
// successful poll.
func pollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll <peer-pubkey-hex>...",
		Short: "Fetch messages not seen by a previous poll",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireHomeserver(); err != nil {
				return err
			}
			peers := make([]domain.Ed25519Public, 0, len(args))
			for _, a := range args {
				p, err := domain.ParsePublicKey(a)
				if err != nil {
					return fmt.Errorf("peer %q: %w", a, err)
				}
				peers = append(peers, p)
			}
			if _, err := resume(); err != nil {
				return err
			}

			cursors, err := loadCursors()
			if err != nil {
				return err
			}
			since := make(map[domain.Ed25519Public]domain.Cursor, len(cursors))
			for hexPub, cur := range cursors {
				p, err := domain.ParsePublicKey(hexPub)
				if err != nil {
					continue // stale entry
				}
				since[p] = cur
			}

			msgs, err := appCtx.Messages.GetNewMessages(cmd.Context(), peers, since)
			if err != nil {
				return err
			}
			// Print incoming records and advance each peer's cursor to the
			// newest one seen. Our own records carry no new information for
			// a poll.
			for _, m := range msgs {
				if m.IsOwn {
					continue
				}
				printMessage(m)
				peerHex := m.Sender.Hex()
				cur, ok := cursors[peerHex]
				if !ok || cur.Before(m.Timestamp, m.Nonce) {
					cursors[peerHex] = domain.Cursor{Timestamp: m.Timestamp, Nonce: m.Nonce}
				}
			}
			return saveCursors(cursors)
		},
	}
}

func loadCursors() (map[string]domain.Cursor, error) {
	out := make(map[string]domain.Cursor)
	b, err := os.ReadFile(filepath.Join(home, cursorsFile))
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func saveCursors(cursors map[string]domain.Cursor) error {
	b, err := json.MarshalIndent(cursors, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, cursorsFile), b, 0o600)
}
