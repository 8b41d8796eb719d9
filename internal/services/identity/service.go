package identity

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/recovery"
	"hushpost/internal/session"
	"hushpost/internal/util/memzero"
)

// Service owns the in-memory identity for the running session: sign-in
// from recovery material, passphrase-free resumption from a sealed token,
// and sign-out with key destruction.
type Service struct {
	devices domain.DeviceKeyStore
	tokens  domain.SessionTokenStore
	logger  *zap.Logger

	mu      sync.RWMutex
	current *domain.Identity

	// onSignOut runs after the identity is wiped, so dependents (the
	// message service's conversation-key cache) can drop derived secrets.
	onSignOut []func()
}

// New returns an identity service backed by the given stores.
func New(devices domain.DeviceKeyStore, tokens domain.SessionTokenStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{devices: devices, tokens: tokens, logger: logger}
}

// OnSignOut registers a hook invoked whenever SignOut runs.
func (s *Service) OnSignOut(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSignOut = append(s.onSignOut, fn)
}

// SignIn decrypts the recovery material, derives the identity, seals a
// session token under the device key, and persists the token.
//
// Fails with ErrRecovery when the material/passphrase combination does not
// pass the integrity check; that attempt is fatal, the user retries.
func (s *Service) SignIn(recoveryBlob []byte, passphrase string) (domain.Identity, domain.SessionToken, error) {
	id, err := recovery.Open(recoveryBlob, passphrase)
	if err != nil {
		return domain.Identity{}, nil, err
	}

	deviceKey, err := s.devices.DeviceKey()
	if err != nil {
		return domain.Identity{}, nil, fmt.Errorf("device key: %w", err)
	}
	tok, err := session.Seal(id, deviceKey)
	if err != nil {
		return domain.Identity{}, nil, fmt.Errorf("seal session: %w", err)
	}
	if err := s.tokens.SaveToken(tok); err != nil {
		return domain.Identity{}, nil, fmt.Errorf("persist session: %w", err)
	}

	s.setCurrent(id)
	s.logger.Info("signed in", zap.String("fingerprint", crypto.Fingerprint(id.EdPub.Slice())))
	return id, tok, nil
}

// RestoreSession unseals a token with the device key and installs the
// recovered identity. Fails with ErrSessionInvalid on a stale, foreign,
// or corrupted token; callers then fall back to full sign-in.
func (s *Service) RestoreSession(tok domain.SessionToken) (domain.Identity, error) {
	deviceKey, err := s.devices.DeviceKey()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("device key: %w", err)
	}
	id, err := session.Unseal(tok, deviceKey)
	if err != nil {
		return domain.Identity{}, err
	}
	s.setCurrent(id)
	return id, nil
}

// Resume restores from the locally persisted token, if any.
func (s *Service) Resume() (domain.Identity, error) {
	tok, ok, err := s.tokens.LoadToken()
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, domain.ErrSessionInvalid
	}
	return s.RestoreSession(tok)
}

// SignOut wipes the in-memory identity, runs sign-out hooks, and deletes
// the persisted token.
func (s *Service) SignOut() error {
	s.mu.Lock()
	if s.current != nil {
		memzero.Zero(s.current.Seed[:])
		memzero.Zero(s.current.EdPriv[:])
		memzero.Zero(s.current.XPriv[:])
		s.current = nil
	}
	hooks := s.onSignOut
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	if err := s.tokens.DeleteToken(); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}

// Current returns the in-memory identity, if signed in.
func (s *Service) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// Fingerprint returns the short fingerprint of the local identity key.
func (s *Service) Fingerprint() (string, error) {
	id, ok := s.Current()
	if !ok {
		return "", domain.ErrNotSignedIn
	}
	return crypto.Fingerprint(id.EdPub.Slice()), nil
}

func (s *Service) setCurrent(id domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &id
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
