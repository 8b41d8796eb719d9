// Package homeserver implements the storage transport: a thin HTTP client
// against a party's publicly readable object store, plus an in-memory
// implementation for tests and the dev server. Homeservers see only
// opaque ciphertext under unlinkable directory names; all guarantees come
// from the protocol layers above.
package homeserver
