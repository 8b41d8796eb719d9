package recovery

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/util/memzero"
)

const (
	// formatVersion is the current recovery blob format.
	formatVersion = 1

	saltBytes = 16
)

// blob is the recovery-file JSON structure. KDF parameters travel with the
// ciphertext so they can be tuned without breaking old files.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }

// NewSeed returns a fresh random recovery seed.
func NewSeed() ([32]byte, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, err
	}
	return seed, nil
}

// Seal encrypts the recovery seed under a key stretched from the
// passphrase and returns the recovery file contents.
func Seal(seed [32]byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	N, r, p := scryptParamsDefault()
	key, err := scrypt.Key([]byte(passphrase), salt, N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nonce, nonce, seed[:], salt)

	return json.Marshal(blob{V: formatVersion, Salt: salt, N: N, R: r, P: p, Cipher: ct})
}

// Open decrypts a recovery file and derives the identity from the
// recovered seed. A wrong passphrase, a truncated file, or any tampering
// fails the AEAD tag and surfaces as ErrRecovery.
func Open(recovery []byte, passphrase string) (domain.Identity, error) {
	var bl blob
	if err := json.Unmarshal(recovery, &bl); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: malformed recovery file", domain.ErrRecovery)
	}
	if bl.V > formatVersion {
		return domain.Identity{}, fmt.Errorf("%w: unsupported version %d", domain.ErrRecovery, bl.V)
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrRecovery, err)
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return domain.Identity{}, err
	}
	if len(bl.Cipher) < aead.NonceSize() {
		return domain.Identity{}, fmt.Errorf("%w: truncated", domain.ErrRecovery)
	}
	nonce, ct := bl.Cipher[:aead.NonceSize()], bl.Cipher[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, bl.Salt)
	if err != nil {
		return domain.Identity{}, domain.ErrRecovery
	}
	defer memzero.Zero(pt)
	if len(pt) != 32 {
		return domain.Identity{}, fmt.Errorf("%w: bad seed length", domain.ErrRecovery)
	}

	var seed [32]byte
	copy(seed[:], pt)
	return crypto.IdentityFromSeed(seed)
}
