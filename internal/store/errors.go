package store

import "errors"

var (
	// ErrStoreUnavailable means the backing table has not been provisioned
	// yet. Readers treat this as an empty result set.
	ErrStoreUnavailable = errors.New("store table unavailable")

	// ErrConflict means an insert collided with an existing row id.
	ErrConflict = errors.New("insert conflict")

	// ErrScopeMismatch means an update or delete matched zero rows under
	// its filters.
	ErrScopeMismatch = errors.New("no rows matched scope")
)
