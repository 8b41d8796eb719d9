package crypto

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"hushpost/internal/domain"
)

// IdentityFromSeed deterministically derives the full key material for one
// party from a 32-byte recovery seed.
//
// The Ed25519 pair comes straight from the seed. The X25519 agreement
// private key is the first half of SHA-512(seed), clamped per RFC 7748,
// which is the same scalar Ed25519 itself uses; peers can therefore obtain
// the matching agreement public key from the signing public key alone
// (see AgreementPublicFromIdentity).
func IdentityFromSeed(seed [32]byte) (domain.Identity, error) {
	edPriv := ed25519.NewKeyFromSeed(seed[:])
	edPub := edPriv.Public().(ed25519.PublicKey)

	h := sha512.Sum512(seed[:])
	var xPriv domain.X25519Private
	copy(xPriv[:], h[:32])
	clamp(&xPriv)

	xb, err := curve25519.X25519(xPriv.Slice(), curve25519.Basepoint)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("derive agreement public: %w", err)
	}

	var id domain.Identity
	id.Seed = seed
	copy(id.EdPriv[:], edPriv)
	copy(id.EdPub[:], edPub)
	id.XPriv = xPriv
	copy(id.XPub[:], xb)
	return id, nil
}

// SignEd25519 signs msg with priv and returns the 64-byte signature.
func SignEd25519(priv domain.Ed25519Private, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv[:]), msg)
}

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub domain.Ed25519Public, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}

func clamp(k *domain.X25519Private) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
