// Package agreement derives the per-conversation symmetric key set from
// one party's X25519 private key and the counterpart's Ed25519 identity
// key: a single Diffie-Hellman followed by domain-separated HKDF-SHA256
// expansion into content, sender, and locator subkeys. The derivation is
// order-independent, so both participants arrive at the same keys without
// a round trip.
package agreement
