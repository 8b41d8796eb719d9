// Package recovery implements the recovery-file format: a versioned JSON
// blob sealing the 32-byte identity seed under a passphrase-stretched key
// (scrypt + XChaCha20-Poly1305). Opening a file with the right passphrase
// reproduces the exact identity; anything else fails the integrity check.
package recovery
