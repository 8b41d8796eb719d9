package crypto

import (
	"fmt"

	"filippo.io/edwards25519"

	"hushpost/internal/domain"
)

// AgreementPublicFromIdentity converts a peer's Ed25519 identity key to its
// X25519 agreement form (Edwards to Montgomery birational map).
//
// Rejects encodings that are not a valid curve point and points in the
// low-order subgroup, so a malicious contact key cannot force a degenerate
// shared secret.
func AgreementPublicFromIdentity(pub domain.Ed25519Public) (domain.X25519Public, error) {
	var out domain.X25519Public

	p, err := new(edwards25519.Point).SetBytes(pub.Slice())
	if err != nil {
		return out, fmt.Errorf("%w: not a curve point", domain.ErrInvalidPeerKey)
	}
	if new(edwards25519.Point).MultByCofactor(p).Equal(edwards25519.NewIdentityPoint()) == 1 {
		return out, fmt.Errorf("%w: low-order point", domain.ErrInvalidPeerKey)
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}
