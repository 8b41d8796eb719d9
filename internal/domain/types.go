package domain

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Ed25519Public is a signing public key. It doubles as a party's stable
// identity: homeserver namespaces and contact addresses are keyed by it.
type Ed25519Public [32]byte

func (p Ed25519Public) Slice() []byte { return p[:] }

// Hex returns the lowercase hex form used in homeserver URLs and the CLI.
func (p Ed25519Public) Hex() string { return hex.EncodeToString(p[:]) }

// Ed25519Private is a signing private key (ed25519.PrivateKey layout).
type Ed25519Private [64]byte

func (k Ed25519Private) Slice() []byte { return k[:] }

// X25519Public is a Curve25519 agreement public key.
type X25519Public [32]byte

func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 agreement private key.
type X25519Private [32]byte

func (k X25519Private) Slice() []byte { return k[:] }

// ParsePublicKey decodes a lowercase hex identity key.
//
// It only checks shape here; curve validity is enforced when the key is
// first used for agreement (see ErrInvalidPeerKey).
func ParsePublicKey(s string) (Ed25519Public, error) {
	var out Ed25519Public
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPeerKey, err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidPeerKey, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Identity holds one local user's long-term key material.
//
// Everything is re-derivable from Seed, which is the only part that ever
// touches persistent storage (sealed, see SessionToken).
type Identity struct {
	Seed [32]byte

	EdPub  Ed25519Public
	EdPriv Ed25519Private

	XPub  X25519Public
	XPriv X25519Private
}

// SessionToken is the local identity sealed under a device-local key.
// Opaque to callers; persisted by the session store, never transmitted.
type SessionToken []byte

// Record is one encrypted, signed message as persisted on a homeserver.
// This JSON layout is the wire format and must stay bit-compatible across
// implementations.
type Record struct {
	Timestamp        int64  `json:"timestamp"`
	EncryptedSender  []byte `json:"encrypted_sender"`
	EncryptedContent []byte `json:"encrypted_content"`
	Nonce            []byte `json:"nonce"`
	Signature        []byte `json:"signature"`
}

// ChatMessage is one decrypted, classified record as returned by the read
// path. Nonce is carried so callers can build Cursors from it.
type ChatMessage struct {
	Sender    Ed25519Public
	Content   string
	Timestamp int64
	Nonce     []byte
	IsOwn     bool
	Verified  bool
}

// Cursor marks the last record a polling caller has already seen for one
// counterpart. Cursor bookkeeping belongs to the caller, not the protocol.
type Cursor struct {
	Timestamp int64  `json:"timestamp"`
	Nonce     []byte `json:"nonce"`
}

// Before reports whether the cursor position precedes the given record
// coordinates, using the conversation ordering (timestamp, then nonce).
func (c Cursor) Before(ts int64, nonce []byte) bool {
	if c.Timestamp != ts {
		return c.Timestamp < ts
	}
	return bytes.Compare(c.Nonce, nonce) < 0
}
