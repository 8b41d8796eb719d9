package domain

import "context"

// HomeserverClient is how we talk to a party's storage endpoint. Every
// party hosts only what it writes itself, so Put is only ever called with
// the local identity as owner; Get and List run against both sides.
type HomeserverClient interface {
	Put(ctx context.Context, owner Ed25519Public, path string, body []byte) error
	Get(ctx context.Context, owner Ed25519Public, path string) ([]byte, error)
	List(ctx context.Context, owner Ed25519Public, dir string) ([]string, error)
}

// SessionTokenStore persists the sealed session token between runs.
type SessionTokenStore interface {
	SaveToken(tok SessionToken) error
	LoadToken() (SessionToken, bool, error)
	DeleteToken() error
}

// DeviceKeyStore owns the device-local secret that seals session tokens.
// The key never leaves the device and is independent of the passphrase.
type DeviceKeyStore interface {
	DeviceKey() ([]byte, error)
}

// IdentityService handles sign-in, session resumption, and sign-out.
type IdentityService interface {
	SignIn(recovery []byte, passphrase string) (Identity, SessionToken, error)
	RestoreSession(tok SessionToken) (Identity, error)
	Resume() (Identity, error)
	SignOut() error
	Current() (Identity, bool)
	Fingerprint() (string, error)
}

// MessageService is the write and read path for conversations.
type MessageService interface {
	Send(ctx context.Context, recipient Ed25519Public, plaintext []byte) (Record, error)
	GetConversation(ctx context.Context, counterpart Ed25519Public) ([]ChatMessage, error)
	GetNewMessages(ctx context.Context, counterparts []Ed25519Public, since map[Ed25519Public]Cursor) ([]ChatMessage, error)
}
