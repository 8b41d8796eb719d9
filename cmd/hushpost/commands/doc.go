// Package commands contains the hushpost CLI subcommands. Each command
// resumes the stored session where one is needed and drives the services
// wired in internal/app.
package commands
