package tracecap

import (
	"fmt"
	"strings"
	"sync"

	"tracecap/internal/base"
	"tracecap/internal/lifecycle"
	"tracecap/internal/resolve"
	"tracecap/internal/synth"
)

// Traceback is an immutable snapshot of one thread's call stack at one
// instant: an ordered sequence of (code unit, instruction offset) pairs,
// innermost frame first.
//
// Ownership is shared by reference count. Get returns a Traceback holding
// one reference; Retain adds holders, Release drops them. Each code unit
// was retained exactly once per occurrence at capture time and is
// released exactly once when the last holder is gone. Using a Traceback
// after its last Release is a programming error.
type Traceback struct {
	tracer *Tracer
	frames []base.RawFrame
	refs   lifecycle.RefCount

	hashOnce sync.Once
	hash     uint64
}

// Retain adds a holder. Safe from any goroutine, no lock required.
func (tb *Traceback) Retain() {
	tb.refs.Retain()
}

// Release drops one holder. When the last holder is gone the underlying
// code-unit references are released: immediately if the execution lock is
// held, otherwise they move to the reclamation queue for the next Sweep.
// Release never takes the lock itself and never leaks.
func (tb *Traceback) Release() {
	if tb == nil {
		return
	}
	if !tb.refs.Release() {
		return
	}

	frames := tb.frames
	tb.frames = nil

	lock := tb.tracer.host.Lock()
	if lock.Held() {
		for _, f := range frames {
			f.ReleaseLocked(lock)
		}
		return
	}
	tb.tracer.queue.Append(frames)
}

// Len returns the number of captured frames.
func (tb *Traceback) Len() int {
	return len(tb.frames)
}

// RawFrames returns the captured (code unit, offset) pairs, innermost
// first. The code references stay owned by the Traceback; callers that
// need them longer must retain them under the execution lock.
func (tb *Traceback) RawFrames() []RawFrame {
	return tb.frames
}

// Frames resolves the snapshot into display descriptors, innermost first.
// Descriptors are recomputed on every call. Requires the execution lock.
func (tb *Traceback) Frames() []Frame {
	return resolve.Frames(tb.tracer.host.Lock(), tb.frames)
}

// String renders one "file:line (function)" entry per frame, innermost
// first, joined by newlines. Requires the execution lock.
func (tb *Traceback) String() string {
	descs := tb.Frames()
	entries := make([]string, 0, len(descs))
	for _, d := range descs {
		entries = append(entries, fmt.Sprintf("%s:%d (%s)", d.FileName, d.Line, d.FunctionName))
	}
	return strings.Join(entries, "\n")
}

// Equal reports whether both snapshots reference the identical code units
// at the identical offsets in the identical order. No lock required.
func (tb *Traceback) Equal(other *Traceback) bool {
	if other == nil {
		return false
	}
	return base.EqualFrames(tb.frames, other.frames)
}

// Hash returns a structural hash consistent with Equal, computed once per
// Traceback. No lock required.
func (tb *Traceback) Hash() uint64 {
	tb.hashOnce.Do(func() {
		tb.hash = base.HashFrames(tb.frames)
	})
	return tb.hash
}

// AsHostTraceback rebuilds the snapshot as the host's native traceback
// chain, one synthetic frame per captured frame, outermost link first.
// Synthetic frames carry fabricated placeholder code units and no local
// state; local-variable reconstruction is unsupported because the
// original execution context no longer exists. Returns nil for an empty
// snapshot. Requires the execution lock.
func (tb *Traceback) AsHostTraceback() (ForeignTraceback, error) {
	return synth.Build(tb.tracer.host.Lock(), tb.tracer.host.Builder(), tb.frames)
}
