package session

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/util/memzero"
)

const tokenFormatVersion = 1

// tokenBlob is the sealed-token JSON structure.
type tokenBlob struct {
	V      int    `json:"v"`
	Cipher []byte `json:"cipher"`
}

// Seal encrypts the identity seed under the device key and returns a
// session token for passphrase-free resumption.
//
// The device key is sourced from local entropy and never leaves the
// device, so a stolen token alone is useless. Sealing does not mutate the
// identity; Seal then Unseal reproduces it exactly.
func Seal(id domain.Identity, deviceKey []byte) (domain.SessionToken, error) {
	aead, err := chacha20poly1305.NewX(deviceKey)
	if err != nil {
		return nil, fmt.Errorf("device key: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nonce, nonce, id.Seed[:], nil)
	return json.Marshal(tokenBlob{V: tokenFormatVersion, Cipher: ct})
}

// Unseal decrypts a session token and re-derives the identity.
//
// Any tampering, a token from another device, or corrupted storage fails
// the authentication tag and surfaces as ErrSessionInvalid; the caller is
// expected to fall back to a full recovery-file sign-in.
func Unseal(tok domain.SessionToken, deviceKey []byte) (domain.Identity, error) {
	var bl tokenBlob
	if err := json.Unmarshal(tok, &bl); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: malformed token", domain.ErrSessionInvalid)
	}
	if bl.V > tokenFormatVersion {
		return domain.Identity{}, fmt.Errorf("%w: unsupported version %d", domain.ErrSessionInvalid, bl.V)
	}

	aead, err := chacha20poly1305.NewX(deviceKey)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("device key: %w", err)
	}
	if len(bl.Cipher) < aead.NonceSize() {
		return domain.Identity{}, fmt.Errorf("%w: truncated", domain.ErrSessionInvalid)
	}
	nonce, ct := bl.Cipher[:aead.NonceSize()], bl.Cipher[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return domain.Identity{}, domain.ErrSessionInvalid
	}
	defer memzero.Zero(pt)
	if len(pt) != 32 {
		return domain.Identity{}, fmt.Errorf("%w: bad seed length", domain.ErrSessionInvalid)
	}

	var seed [32]byte
	copy(seed[:], pt)
	return crypto.IdentityFromSeed(seed)
}
