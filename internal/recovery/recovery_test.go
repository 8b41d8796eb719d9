package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/recovery"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	seed, err := recovery.NewSeed()
	require.NoError(t, err)

	blob, err := recovery.Seal(seed, "correct horse")
	require.NoError(t, err)

	got, err := recovery.Open(blob, "correct horse")
	require.NoError(t, err)

	want, err := crypto.IdentityFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, want, got, "recovered identity must match the sealed seed's identity")
}

func TestOpen_WrongPassphrase(t *testing.T) {
	seed, err := recovery.NewSeed()
	require.NoError(t, err)
	blob, err := recovery.Seal(seed, "right")
	require.NoError(t, err)

	_, err = recovery.Open(blob, "wrong")
	require.ErrorIs(t, err, domain.ErrRecovery)
}

func TestOpen_TamperedBlob(t *testing.T) {
	seed, err := recovery.NewSeed()
	require.NoError(t, err)
	blob, err := recovery.Seal(seed, "pass")
	require.NoError(t, err)

	// Flip one ciphertext byte inside the JSON.
	tampered := append([]byte(nil), blob...)
	tampered[len(tampered)-10] ^= 1
	_, err = recovery.Open(tampered, "pass")
	require.ErrorIs(t, err, domain.ErrRecovery)
}

func TestOpen_Garbage(t *testing.T) {
	_, err := recovery.Open([]byte("not json at all"), "pass")
	require.ErrorIs(t, err, domain.ErrRecovery)
}
