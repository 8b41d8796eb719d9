package agreement

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/util/memzero"
)

// KeyBytes is the length of every derived symmetric key.
const KeyBytes = 32

// Fixed HKDF info strings. These are part of the wire contract: both
// participants must derive the same subkeys or nothing decrypts.
const (
	infoContent = "hushpost/v1/content"
	infoSender  = "hushpost/v1/sender"
	infoLocator = "hushpost/v1/locator"
)

// Keys is the per-conversation symmetric key set. Content and Sender are
// independent AEAD keys, so compromising the key for one record field does
// not help with the other. Locator feeds the storage path resolver and is
// never used for encryption.
type Keys struct {
	Content [KeyBytes]byte
	Sender  [KeyBytes]byte
	Locator [KeyBytes]byte
}

// Wipe zeroes the key set.
func (k *Keys) Wipe() {
	memzero.Zero(k.Content[:])
	memzero.Zero(k.Sender[:])
	memzero.Zero(k.Locator[:])
}

// DeriveConversationKeys derives the symmetric key set shared between the
// local party and a counterpart identified by its Ed25519 identity key.
//
// Both sides compute the identical set without any negotiation: X25519 is
// symmetric, and the HKDF expansion uses only fixed context strings.
// Returns ErrInvalidPeerKey for keys that are not usable curve points.
func DeriveConversationKeys(myPriv domain.X25519Private, theirIdentity domain.Ed25519Public) (Keys, error) {
	theirPub, err := crypto.AgreementPublicFromIdentity(theirIdentity)
	if err != nil {
		return Keys{}, err
	}
	return deriveFromAgreement(myPriv, theirPub)
}

func deriveFromAgreement(myPriv domain.X25519Private, theirPub domain.X25519Public) (Keys, error) {
	shared, err := curve25519.X25519(myPriv.Slice(), theirPub.Slice())
	if err != nil {
		// All-zero output: low-order peer point.
		return Keys{}, fmt.Errorf("%w: %v", domain.ErrInvalidPeerKey, err)
	}
	defer memzero.Zero(shared)

	var keys Keys
	if err := expand(shared, infoContent, keys.Content[:]); err != nil {
		return Keys{}, err
	}
	if err := expand(shared, infoSender, keys.Sender[:]); err != nil {
		return Keys{}, err
	}
	if err := expand(shared, infoLocator, keys.Locator[:]); err != nil {
		return Keys{}, err
	}
	return keys, nil
}

// expand runs HKDF-SHA256 over the shared secret with a fixed info string.
func expand(shared []byte, info string, out []byte) error {
	r := hkdf.New(sha256.New, shared, nil, []byte(info))
	if _, err := io.ReadFull(r, out); err != nil {
		return fmt.Errorf("hkdf expand %q: %w", info, err)
	}
	return nil
}
