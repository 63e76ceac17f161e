package tracecap

import (
	"tracecap/internal/base"
)

var (
	// ErrNotCode reports a resolver handle that is not a valid code unit.
	ErrNotCode = base.ErrNotCode

	// ErrLocationUnsupported reports a column-level location query against
	// a host build that does not track location info.
	ErrLocationUnsupported = base.ErrLocationUnsupported

	// ErrExcSwapUnsupported reports a traceback replacement against a host
	// that manages exception state automatically.
	ErrExcSwapUnsupported = base.ErrExcSwapUnsupported

	// ErrNoActiveException reports a traceback replacement while no
	// exception is active on the calling thread.
	ErrNoActiveException = base.ErrNoActiveException
)
