// Package tracecap captures lightweight call-stack snapshots of an
// embedded interpreter runtime and resolves them on demand.
//
// Capture records one (code unit, instruction offset) pair per active
// frame and is cheap enough to leave enabled on production-adjacent
// paths. The expensive parts — string resolution, synthetic traceback
// construction — run lazily, only when a snapshot is inspected. The host
// runtime is supplied behind the Host interface; tracecap never acquires
// the host's execution lock itself, it only asserts that callers hold it
// where required.
package tracecap

import (
	"sync/atomic"

	"tracecap/internal/base"
	"tracecap/internal/depot"
	"tracecap/internal/reclaim"
	"tracecap/internal/resolve"
	"tracecap/internal/walk"
)

// Tracer is the capture and resolution facility for one host runtime.
// A process embeds one runtime and creates one Tracer at startup; the
// enabled flag and the reclamation queue live for the life of the process.
type Tracer struct {
	host    base.Host
	walker  walk.Walker
	queue   reclaim.Queue
	enabled atomic.Bool
	interns *depot.Cache[*Traceback]
	log     Logger
}

// New creates a Tracer for the given host, selecting the stack-walker
// variant from the host's frame layout once, up front. Capture starts
// enabled unless WithDisabled is given.
func New(host Host, options ...Option) (*Tracer, error) {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	walker, err := walk.ForLayout(host.Layout(), host.Lock())
	if err != nil {
		return nil, err
	}

	t := &Tracer{
		host:   host,
		walker: walker,
		log:    opts.logger,
	}
	t.enabled.Store(!opts.disabled)

	if opts.internCapacity > 0 {
		// Evicted entries drop the cache's reference. Eviction runs during
		// Get (under the execution lock), so the release is immediate; a
		// release from elsewhere defers through the reclamation queue.
		t.interns, err = depot.New[*Traceback](opts.internCapacity, func(_ uint64, tb *Traceback) {
			tb.Release()
		})
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Get captures the calling thread's stack and returns it as a new
// Traceback holding one reference, or nil when capture is disabled.
// A nil result means "tracing unavailable", not an error. Requires the
// execution lock.
func (t *Tracer) Get() *Traceback {
	base.AssertLocked(t.host.Lock())
	if !t.enabled.Load() {
		return nil
	}

	frames := t.walker.Walk(t.host.CurrentThread())
	tb := &Traceback{tracer: t, frames: frames}
	tb.refs.Init(1)

	if t.interns != nil {
		tb = t.intern(tb)
	}
	return tb
}

// Enabled reports whether capture is currently enabled.
func (t *Tracer) Enabled() bool {
	return t.enabled.Load()
}

// SetEnabled turns capture on or off, effective on the next Get.
// Already-captured Tracebacks are unaffected.
func (t *Tracer) SetEnabled(enabled bool) {
	if t.enabled.Swap(enabled) != enabled {
		t.log.Info("stack capture toggled", "enabled", enabled)
	}
}

// Sweep releases every code-unit reference staged by snapshots destroyed
// without the execution lock, and returns how many frames were released.
// Call it from the host's garbage-collection hook with the lock held.
// Sweeping an empty queue is a no-op.
func (t *Tracer) Sweep() int {
	released := t.queue.Drain(t.host.Lock())
	if released > 0 {
		t.log.Info("released deferred code references", "frames", released)
	}
	return released
}

// Pending returns the number of frames currently awaiting Sweep.
func (t *Tracer) Pending() int {
	return t.queue.Len()
}

// Addr2Line resolves the source line active at a byte offset of an
// arbitrary code unit, for callers managing their own references.
// Returns ErrNotCode if the handle is not a code unit. Offsets at or
// below zero resolve to the unit's first line. Requires the execution
// lock.
func (t *Tracer) Addr2Line(code any, offset int) (int, error) {
	return resolve.Addr2Line(t.host.Lock(), code, offset)
}

// Addr2Location resolves column-level location info at a byte offset, on
// host builds that track it. Returns ErrLocationUnsupported on hosts
// without the capability. Requires the execution lock.
func (t *Tracer) Addr2Location(code any, offset int) (Location, error) {
	return resolve.Addr2Location(t.host.Lock(), code, offset)
}

// ReplaceExcTraceback replaces the calling thread's active exception
// traceback with tb (nil clears it). Only hosts whose exception state is
// a plain mutable field support this; others yield ErrExcSwapUnsupported.
// Returns ErrNoActiveException when no exception is active. Requires the
// execution lock.
func (t *Tracer) ReplaceExcTraceback(tb ForeignTraceback) error {
	base.AssertLocked(t.host.Lock())

	swapper, ok := t.host.(base.ExcStateSwapper)
	if !ok {
		return ErrExcSwapUnsupported
	}
	if _, active := swapper.ActiveExcTraceback(); !active {
		return ErrNoActiveException
	}
	swapper.SetExcTraceback(tb)
	return nil
}
