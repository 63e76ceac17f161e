package tracecap

import "tracecap/internal/base"

// The host runtime boundary is declared in internal/base so the internal
// packages can share it; these aliases are the public names integrators
// implement.

type (
	// Host is the aggregate interface the embedding runtime provides.
	Host = base.Host

	// Code is the host's handle for one compiled unit of source code.
	Code = base.Code

	// LocatableCode is the optional column-level location capability.
	LocatableCode = base.LocatableCode

	// Location is column-level position info.
	Location = base.Location

	// ExecLock is the host's global execution lock capability.
	ExecLock = base.ExecLock

	// StackLayout selects the host build's call-frame representation.
	StackLayout = base.StackLayout

	// ThreadState is the host's view of one executing thread.
	ThreadState = base.ThreadState

	// FrameBytes, FrameWords, and FrameInternal are the three physical
	// frame shapes; ThreadStateBytes, ThreadStateWords, and
	// ThreadStateInternal are the matching thread-state shapes.
	FrameBytes          = base.FrameBytes
	FrameWords          = base.FrameWords
	FrameInternal       = base.FrameInternal
	ThreadStateBytes    = base.ThreadStateBytes
	ThreadStateWords    = base.ThreadStateWords
	ThreadStateInternal = base.ThreadStateInternal

	// FrameBuilder is the host's synthetic frame construction surface.
	FrameBuilder = base.FrameBuilder

	// Globals is the host's opaque globals container.
	Globals = base.Globals

	// FrameObject is the host's opaque synthetic execution frame.
	FrameObject = base.FrameObject

	// ForeignTraceback is one link of the host's native traceback chain.
	ForeignTraceback = base.ForeignTraceback

	// ExcStateSwapper is the optional exception-state replacement
	// capability.
	ExcStateSwapper = base.ExcStateSwapper

	// RawFrame is one captured (code unit, offset) pair.
	RawFrame = base.RawFrame

	// Frame is the resolved, display-only projection of a RawFrame.
	Frame = base.FrameDesc
)

const (
	// LayoutBytes marks hosts whose frames report byte offsets directly.
	LayoutBytes = base.LayoutBytes

	// LayoutWords marks hosts counting instruction offsets in code words.
	LayoutWords = base.LayoutWords

	// LayoutInternal marks hosts exposing raw internal frames, including
	// incomplete ones.
	LayoutInternal = base.LayoutInternal
)
