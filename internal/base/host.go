package base

// Host is the aggregate boundary with the embedding interpreter runtime.
// Optional capabilities (ExcStateSwapper on the host, LocatableCode on a
// code unit) are discovered by type assertion.
type Host interface {
	// Lock returns the host's global execution lock capability.
	Lock() ExecLock

	// Layout reports which call-frame representation this host build uses.
	// The answer must not change for the life of the process.
	Layout() StackLayout

	// CurrentThread returns the calling thread's state, shaped per Layout.
	CurrentThread() ThreadState

	// Builder returns the host's synthetic frame construction surface.
	Builder() FrameBuilder
}

// Globals is the host's opaque globals container, only ever passed back
// into FrameBuilder.NewFrame.
type Globals interface{}

// FrameObject is the host's opaque synthetic execution frame.
type FrameObject interface{}

// FrameBuilder fabricates the host objects a synthetic traceback is made
// of. All methods require the execution lock.
type FrameBuilder interface {
	// NewGlobals returns a fresh, empty globals container.
	NewGlobals() Globals

	// NewCode builds a minimal placeholder code unit carrying only a file
	// name, a function name, and a line number. Hosts with consistency
	// checks on fabricated units must reject empty names or non-positive
	// lines here rather than crash later.
	NewCode(file, name string, line int) (Code, error)

	// NewFrame builds a synthetic execution frame from a placeholder code
	// unit and a globals container, with no locals.
	NewFrame(code Code, globals Globals) (FrameObject, error)

	// NewTracebackLink chains a synthetic frame into the host's native
	// traceback representation. next is the link toward the innermost
	// frame, nil for the innermost link itself.
	NewTracebackLink(next ForeignTraceback, frame FrameObject, lastInstr, line int) (ForeignTraceback, error)
}

// ForeignTraceback is one link of the host's native chained stack-trace
// representation, as consumed by its error-reporting machinery. The head
// link is the outermost frame; Next walks inward.
type ForeignTraceback interface {
	Next() ForeignTraceback
	TracebackFrame() FrameObject
	Line() int
}

// ExcStateSwapper is an optional Host capability: replacing the calling
// thread's active exception traceback. Only hosts whose exception state is
// a plain mutable field implement it; hosts that manage traceback state
// automatically omit it.
type ExcStateSwapper interface {
	// ActiveExcTraceback returns the current exception traceback and
	// whether an exception is active at all.
	ActiveExcTraceback() (ForeignTraceback, bool)

	// SetExcTraceback replaces the active exception traceback. nil clears it.
	SetExcTraceback(tb ForeignTraceback)
}
