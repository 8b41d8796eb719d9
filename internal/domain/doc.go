// Package domain defines the types, interfaces, and sentinel errors shared
// by every layer: key material, the on-storage record format, the read-side
// projection types, and the service/store contracts wired in internal/app.
package domain
