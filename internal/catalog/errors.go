package catalog

import "errors"

// Domain failures are sentinels so the API layer can map each kind to
// its own status code. Callers branch on "not logged in" vs "not found"
// vs "forbidden" — collapsing them would break the frontend's error
// translation.
var (
	// ErrNotAuthenticated: the operation needs a caller identity and
	// none was supplied.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUserMissing: the caller's identity verified fine, but no user
	// row maps to their subject yet (they haven't synced their profile).
	// Deliberately distinct from ErrNotAuthenticated.
	ErrUserMissing = errors.New("no user record for caller")

	// ErrNotFound: the referenced movie, comment, user or rating
	// doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied: authenticated, but not the owner/author of
	// the resource being mutated.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidScore: rating score outside [1,5].
	ErrInvalidScore = errors.New("score must be between 1 and 5")
)
