// Package reconcile merges the two independently written record streams of
// a conversation into one ordered, verified projection. There is no shared
// log and no server-side coordination: each participant writes only to its
// own homeserver, and the reconciler fetches both sides, drops what fails
// authentication, deduplicates, and orders deterministically.
package reconcile
