// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty task, out of range).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// StorageError indicates the slot could not be read or written.
	StorageError = 3
)
