package domain

import "errors"

// Sentinel errors shared across layers. Callers match with errors.Is; the
// wrapping sites add context with fmt.Errorf("...: %w", ...).
var (
	// ErrRecovery indicates the recovery material or passphrase is wrong.
	// Fatal to that sign-in attempt only.
	ErrRecovery = errors.New("recovery material or passphrase invalid")

	// ErrSessionInvalid indicates a stale, foreign, or corrupted session
	// token. Non-fatal: callers fall back to a full recovery sign-in.
	ErrSessionInvalid = errors.New("session token invalid")

	// ErrInvalidPeerKey indicates the counterpart public key is malformed
	// or not a usable curve point.
	ErrInvalidPeerKey = errors.New("invalid peer public key")

	// ErrDecryptionFailed indicates a record failed AEAD authentication.
	// Per-record: the record is dropped, the read continues.
	ErrDecryptionFailed = errors.New("record decryption failed")

	// ErrSignatureInvalid indicates a record decrypted but its signature
	// did not verify. The content is kept and flagged, never dropped.
	ErrSignatureInvalid = errors.New("record signature invalid")

	// ErrStorageUnavailable indicates a single homeserver fetch failed.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConversationUnavailable indicates both sides of a conversation
	// were unreachable; callers should keep any cached projection.
	ErrConversationUnavailable = errors.New("conversation unavailable")

	// ErrNotSignedIn indicates an operation that needs the local identity
	// was called before sign-in or after sign-out.
	ErrNotSignedIn = errors.New("not signed in")
)
