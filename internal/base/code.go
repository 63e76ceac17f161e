package base

// Code is the host runtime's handle for one compiled unit of source code
// (one function or method body). Handles are owned by the host; this
// package only holds counted references to them.
//
// Retain and Release mutate the host's reference count and are legal only
// while the execution lock is held. Callers inside this module go through
// Capture and RawFrame.Release, which assert the lock.
type Code interface {
	// FileName returns the source file the unit was compiled from.
	FileName() string

	// Name returns the declared function or method name.
	Name() string

	// FirstLine returns the source line the unit starts on.
	FirstLine() int

	// LineAt returns the source line active at the given byte offset into
	// the unit's instruction stream. Offsets at or below zero resolve to
	// FirstLine.
	LineAt(offset int) int

	// ID returns a stable identity for the unit, unique for the unit's
	// lifetime. Equality and hashing of snapshots are defined over it.
	ID() uint64

	// Retain increments the host's reference count. Execution lock required.
	Retain()

	// Release decrements the host's reference count. Execution lock required.
	Release()
}

// Location is richer position info for hosts that track it.
type Location struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// LocatableCode is an optional Code capability. Hosts without column-level
// position info simply do not implement it; callers discover support by
// type assertion.
type LocatableCode interface {
	Code

	// LocationAt returns the full source location active at the given byte
	// offset.
	LocationAt(offset int) Location
}

// ExecLock is the host's single global execution lock, supplied as a
// capability. This package never acquires it; operations that touch
// host-owned objects assert that the caller already holds it.
type ExecLock interface {
	// Held reports whether the calling thread holds the lock.
	Held() bool
}

// AssertLocked panics if the execution lock is not held. Capture,
// resolution, and reference release without the lock are programming
// errors, not recoverable conditions.
func AssertLocked(lock ExecLock) {
	if !lock.Held() {
		panic("tracecap: execution lock not held")
	}
}
