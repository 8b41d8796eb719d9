package record

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/protocol/agreement"
)

// NonceBytes is the XChaCha20-Poly1305 nonce length carried per record.
const NonceBytes = chacha20poly1305.NonceSizeX

// Decrypted is the output of Open: the recovered plaintext, the sender the
// record claims to come from, and whether the signature checks out against
// that sender. An unverified record is still returned; hiding content that
// fails verification is a caller decision, not a codec one.
type Decrypted struct {
	Plaintext []byte
	Sender    domain.Ed25519Public
	Verified  bool
}

// Seal encrypts and signs one message, producing the on-storage record.
//
// The body is sealed under the conversation content key and a fresh random
// nonce; the sender's identity key is sealed under the independent sender
// subkey with the same nonce, so an observer of storage cannot attribute a
// record without one of the two participants' keys. The signature covers
// the public fields only (timestamp, ciphertexts, nonce), so any party
// holding the record can detect tampering before caring about its content.
func Seal(id domain.Identity, keys agreement.Keys, plaintext []byte) (domain.Record, error) {
	return SealAt(id, keys, plaintext, time.Now().Unix())
}

// SealAt is Seal with an explicit creation timestamp. The timestamp is a
// sender-chosen ordering hint, not a trusted clock.
func SealAt(id domain.Identity, keys agreement.Keys, plaintext []byte, timestamp int64) (domain.Record, error) {
	nonce := make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return domain.Record{}, err
	}

	contentAEAD, err := chacha20poly1305.NewX(keys.Content[:])
	if err != nil {
		return domain.Record{}, err
	}
	senderAEAD, err := chacha20poly1305.NewX(keys.Sender[:])
	if err != nil {
		return domain.Record{}, err
	}

	rec := domain.Record{
		Timestamp: timestamp,
		Nonce:     nonce,
	}
	rec.EncryptedContent = contentAEAD.Seal(nil, nonce, plaintext, nil)
	rec.EncryptedSender = senderAEAD.Seal(nil, nonce, id.EdPub.Slice(), nil)
	rec.Signature = crypto.SignEd25519(id.EdPriv, digest(rec))
	return rec, nil
}

// Open decrypts and verifies one record with the conversation key set.
//
// AEAD failure on either field returns ErrDecryptionFailed: the record is
// corrupt, tampered with, or belongs to a different conversation, and the
// caller should drop it and move on. A bad signature does not fail the
// call; the plaintext is returned with Verified set to false.
func Open(rec domain.Record, keys agreement.Keys) (Decrypted, error) {
	if len(rec.Nonce) != NonceBytes {
		return Decrypted{}, fmt.Errorf("%w: bad nonce length %d", domain.ErrDecryptionFailed, len(rec.Nonce))
	}

	contentAEAD, err := chacha20poly1305.NewX(keys.Content[:])
	if err != nil {
		return Decrypted{}, err
	}
	senderAEAD, err := chacha20poly1305.NewX(keys.Sender[:])
	if err != nil {
		return Decrypted{}, err
	}

	plaintext, err := contentAEAD.Open(nil, rec.Nonce, rec.EncryptedContent, nil)
	if err != nil {
		return Decrypted{}, domain.ErrDecryptionFailed
	}
	senderRaw, err := senderAEAD.Open(nil, rec.Nonce, rec.EncryptedSender, nil)
	if err != nil {
		return Decrypted{}, domain.ErrDecryptionFailed
	}
	if len(senderRaw) != 32 {
		return Decrypted{}, fmt.Errorf("%w: bad sender length %d", domain.ErrDecryptionFailed, len(senderRaw))
	}

	var sender domain.Ed25519Public
	copy(sender[:], senderRaw)

	return Decrypted{
		Plaintext: plaintext,
		Sender:    sender,
		Verified:  crypto.VerifyEd25519(sender, digest(rec), rec.Signature),
	}, nil
}

// digest computes the canonical signing digest over the public record
// fields. Each variable-length field is length-prefixed so no two field
// layouts can collide.
func digest(rec domain.Record) []byte {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(rec.Timestamp))
	h.Write(buf[:])
	for _, field := range [][]byte{rec.EncryptedContent, rec.EncryptedSender, rec.Nonce} {
		binary.BigEndian.PutUint64(buf[:], uint64(len(field)))
		h.Write(buf[:])
		h.Write(field)
	}
	return h.Sum(nil)
}
