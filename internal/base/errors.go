package base

import "errors"

var (
	// ErrNotCode is returned when a resolver receives a handle that is not
	// a valid code unit.
	ErrNotCode = errors.New("argument must be a code unit handle")

	// ErrLocationUnsupported is returned when column-level location info is
	// requested from a host build that does not track it.
	ErrLocationUnsupported = errors.New("host does not support location queries")

	// ErrExcSwapUnsupported is returned when the host manages exception
	// traceback state automatically and cannot have it replaced.
	ErrExcSwapUnsupported = errors.New("host does not support replacing the exception traceback")

	// ErrNoActiveException is returned when a traceback replacement is
	// requested while no exception is active on the calling thread.
	ErrNoActiveException = errors.New("no active exception traceback on this thread")
)
