// Package crypto exposes the key-material primitives used by hushpost.
//
// Contents
//
//   - Deterministic identity derivation from a recovery seed
//     (IdentityFromSeed)
//   - Ed25519 signing and verification (SignEd25519, VerifyEd25519)
//   - Edwards-to-Montgomery conversion of peer identity keys with
//     low-order rejection (AgreementPublicFromIdentity)
//   - Short public-key fingerprints for display (Fingerprint)
//
// All functions work on the fixed-size array types defined in
// internal/domain. Callers should treat returned secrets as sensitive and
// wipe them with internal/util/memzero when practical.
package crypto
