package models

import "errors"

// Error kinds surfaced to the presentation layer. Lower layers wrap these
// with fmt.Errorf("...: %w", ...) so callers can match with errors.Is while
// keeping the underlying cause in the message.
var (
	// ErrNotFound signals a lookup miss (project, photo or comment).
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID signals a create with an id that already exists.
	ErrDuplicateID = errors.New("duplicate identity")

	// ErrValidation signals missing or malformed required input.
	ErrValidation = errors.New("validation error")

	// ErrMigrationFailed is fatal: startup must not proceed past it.
	ErrMigrationFailed = errors.New("schema migration failed")

	// ErrBlobStore wraps any upload/delete/fetch failure from the external
	// object store.
	ErrBlobStore = errors.New("blob store error")

	// ErrStorage wraps any local database failure.
	ErrStorage = errors.New("storage error")
)
