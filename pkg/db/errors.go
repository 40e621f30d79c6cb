package db

import "github.com/cockroachdb/errors"

var (
	// ErrStoreUnavailable marks a failed query. It is never used for "no rows".
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrJobNotFound is returned when writing assignments for a job that does not exist
	ErrJobNotFound = errors.New("job not found")
)

// Unavailable wraps a query failure so callers can tell it apart from empty results
func Unavailable(err error, operation string) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Mark(errors.Wrapf(err, "%s", operation), ErrStoreUnavailable)
	return errors.WithHint(wrapped, "The scheduling data could not be loaded. Please try again in a moment.")
}

// IsUnavailable reports whether err came from a failed store query
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
