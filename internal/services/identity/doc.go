// Package identity manages the local user's key material for a running
// session: recovery sign-in, sealed-token resumption, and sign-out.
package identity
