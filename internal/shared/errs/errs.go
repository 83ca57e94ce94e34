package errs

import "errors"

var (
	// ErrConfiguration reports invalid construction parameters. It is always
	// returned before any counter storage is allocated.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrAllocation reports that backing storage for the requested size
	// could not be obtained.
	ErrAllocation = errors.New("allocation failed")

	// ErrScorer wraps a failure of the external scoring model.
	ErrScorer = errors.New("scorer failed")

	// ErrReleased reports an operation on a filter whose storage was released.
	ErrReleased = errors.New("filter released")
)
