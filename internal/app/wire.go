package app

import (
	"go.uber.org/zap"

	"hushpost/internal/domain"
	"hushpost/internal/homeserver"
	identitysvc "hushpost/internal/services/identity"
	messagesvc "hushpost/internal/services/message"
	"hushpost/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Identity domain.IdentityService
	Messages domain.MessageService
	Tokens   domain.SessionTokenStore
	Client   domain.HomeserverClient
	Logger   *zap.Logger
}

// NewWire constructs the dependency graph from cfg. Idempotent: building
// it twice over the same home directory reuses the same on-disk state.
func NewWire(cfg Config) (*Wire, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	deviceStore := store.NewDeviceFileStore(cfg.Home)
	tokenStore := store.NewSessionFileStore(cfg.Home)

	client := homeserver.NewHTTP(cfg.HomeserverURL, cfg.HTTP, logger)

	ids := identitysvc.New(deviceStore, tokenStore, logger)
	msgs := messagesvc.New(ids, client, logger)
	ids.OnSignOut(msgs.DropKeyCache)

	return &Wire{
		Identity: ids,
		Messages: msgs,
		Tokens:   tokenStore,
		Client:   client,
		Logger:   logger,
	}, nil
}
