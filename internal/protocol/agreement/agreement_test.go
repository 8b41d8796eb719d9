package agreement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/protocol/agreement"
)

func makeIdentity(t *testing.T, seed byte) domain.Identity {
	t.Helper()
	id, err := crypto.IdentityFromSeed([32]byte{seed})
	require.NoError(t, err)
	return id
}

func TestDeriveConversationKeys_Symmetric(t *testing.T) {
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)

	fromAlice, err := agreement.DeriveConversationKeys(alice.XPriv, bob.EdPub)
	require.NoError(t, err)
	fromBob, err := agreement.DeriveConversationKeys(bob.XPriv, alice.EdPub)
	require.NoError(t, err)

	require.Equal(t, fromAlice, fromBob, "both sides must derive the identical key set")
}

func TestDeriveConversationKeys_SubkeysIndependent(t *testing.T) {
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)

	keys, err := agreement.DeriveConversationKeys(alice.XPriv, bob.EdPub)
	require.NoError(t, err)

	require.NotEqual(t, keys.Content, keys.Sender)
	require.NotEqual(t, keys.Content, keys.Locator)
	require.NotEqual(t, keys.Sender, keys.Locator)
}

func TestDeriveConversationKeys_DistinctPerPeer(t *testing.T) {
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)
	carol := makeIdentity(t, 3)

	withBob, err := agreement.DeriveConversationKeys(alice.XPriv, bob.EdPub)
	require.NoError(t, err)
	withCarol, err := agreement.DeriveConversationKeys(alice.XPriv, carol.EdPub)
	require.NoError(t, err)

	require.NotEqual(t, withBob, withCarol)
}

func TestDeriveConversationKeys_InvalidPeer(t *testing.T) {
	alice := makeIdentity(t, 1)

	// Low-order identity element: valid encoding, unusable for agreement.
	var lowOrder domain.Ed25519Public
	lowOrder[0] = 1
	_, err := agreement.DeriveConversationKeys(alice.XPriv, lowOrder)
	require.ErrorIs(t, err, domain.ErrInvalidPeerKey)

	// The order-2 point (0, -1).
	var order2 domain.Ed25519Public
	order2[0] = 0xec
	for i := 1; i < 31; i++ {
		order2[i] = 0xff
	}
	order2[31] = 0x7f
	_, err = agreement.DeriveConversationKeys(alice.XPriv, order2)
	require.ErrorIs(t, err, domain.ErrInvalidPeerKey)
}

func TestKeysWipe(t *testing.T) {
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)

	keys, err := agreement.DeriveConversationKeys(alice.XPriv, bob.EdPub)
	require.NoError(t, err)
	keys.Wipe()
	require.Equal(t, agreement.Keys{}, keys)
}
