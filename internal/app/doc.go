// Package app wires stores, services, and the homeserver client into the
// object graph the CLI consumes.
package app
