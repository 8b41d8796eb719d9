// Package session seals and unseals the local identity under a
// device-local key, producing the session token used for passphrase-free
// resumption across restarts.
package session
