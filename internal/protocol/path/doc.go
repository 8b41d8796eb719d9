// Package path maps a conversation key set to the homeserver locations
// its records are written to and read from, without revealing the
// participant pair to an observer of storage contents alone.
package path
