// Package message implements the conversation operations callers poll:
// sending a record into the local namespace, reconstructing a full
// conversation, and collecting records newer than caller-held cursors.
package message
