// Package record implements the on-storage message codec: authenticated
// encryption of the body and the sender identity under independent
// conversation subkeys, plus an Ed25519 signature over the public fields.
// The JSON encoding of domain.Record is the only persisted format and must
// stay bit-compatible across implementations.
package record
