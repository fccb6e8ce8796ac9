package domain

import "errors"

// Error taxonomy. User errors are reported with a stable exit code and
// never retried; corruption fails loudly instead of being treated as
// "no active session".
var (
	// ErrAlreadyActive means a session of the requested kind is
	// already running.
	ErrAlreadyActive = errors.New("session already active")

	// ErrNoActiveSession means stop/status found nothing to act on.
	ErrNoActiveSession = errors.New("no active session")

	// ErrBreakRequired blocks a new work session until a break has
	// been fully completed under the require-break policy.
	ErrBreakRequired = errors.New("a completed break is required before starting a new session")

	// ErrStateNotFound means a state file that must exist is missing.
	ErrStateNotFound = errors.New("state record not found")

	// ErrCorruptState means a state record exists but cannot be
	// parsed. Never silently treated as absent.
	ErrCorruptState = errors.New("state record is corrupt")
)

// IsUserError reports whether err belongs to the user-error class
// (invalid operation for the current state, not a system failure).
func IsUserError(err error) bool {
	return errors.Is(err, ErrAlreadyActive) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrBreakRequired)
}
