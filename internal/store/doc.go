// Package store persists the two device-local artifacts hushpost keeps
// between runs: the device sealing key and the sealed session token. All
// conversation data lives on homeservers, never here.
package store
