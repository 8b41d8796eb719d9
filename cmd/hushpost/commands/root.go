package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hushpost/internal/app"
	"hushpost/internal/domain"
)

var (
	home          string
	homeserverURL string
	passphrase    string
	verbose       bool

	appCtx *app.Wire
)

func Execute() error {
	// Best effort; absence of a .env file is fine.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "hushpost",
		Short:         "End-to-end encrypted messaging over public homeserver storage",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".hushpost")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			if homeserverURL == "" {
				homeserverURL = os.Getenv("HUSHPOST_HOMESERVER")
			}

			logger := zap.NewNop()
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
			}

			var err error
			appCtx, err = app.NewWire(app.Config{
				Home:          home,
				HomeserverURL: homeserverURL,
				Logger:        logger,
			})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "local state dir (default ~/.hushpost)")
	root.PersistentFlags().StringVar(&homeserverURL, "homeserver", "", "homeserver base URL (or HUSHPOST_HOMESERVER)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "recovery passphrase")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		recoveryCmd(),
		signinCmd(),
		restoreCmd(),
		signoutCmd(),
		sendCmd(),
		conversationCmd(),
		pollCmd(),
		fingerprintCmd(),
	)
	return root.Execute()
}

// resume loads the persisted session token and restores the identity,
// pointing the user at signin when the token is missing or invalid.
func resume() (domain.Identity, error) {
	id, err := appCtx.Identity.Resume()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("no usable session (%w); run: hushpost signin", err)
	}
	return id, nil
}

func requireHomeserver() error {
	if homeserverURL == "" {
		return fmt.Errorf("no homeserver configured; use --homeserver or HUSHPOST_HOMESERVER")
	}
	return nil
}
