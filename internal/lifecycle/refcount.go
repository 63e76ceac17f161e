// Package lifecycle provides shared-ownership primitives for snapshot
// lifetimes.
package lifecycle

import "sync/atomic"

// RefCount tracks shared ownership of an immutable resource. The count
// starts at zero; Init sets the initial ownership before the resource is
// shared. Retain and Release are safe from any goroutine.
//
// Over-release and retain-after-free are programming errors and panic
// immediately rather than corrupt the count.
type RefCount struct {
	n atomic.Int32
}

// Init sets the initial reference count. Must be called before the owner
// is shared; it is not synchronized against concurrent Retain/Release.
func (r *RefCount) Init(n int32) {
	r.n.Store(n)
}

// Retain adds one reference.
func (r *RefCount) Retain() {
	if r.n.Add(1) <= 1 {
		panic("lifecycle: retain of released resource")
	}
}

// Release drops one reference and reports whether it was the last one.
// Exactly one caller observes true.
func (r *RefCount) Release() bool {
	n := r.n.Add(-1)
	if n < 0 {
		panic("lifecycle: release of already-released resource")
	}
	return n == 0
}

// Refs returns the current count. Only meaningful for tests and stats;
// the value may be stale by the time it is read.
func (r *RefCount) Refs() int32 {
	return r.n.Load()
}
