package base

// StackLayout identifies which physical call-frame representation the host
// runtime build exposes. The layout is fixed for the life of the process;
// the walker variant is selected once when the Tracer is constructed.
type StackLayout int

const (
	// LayoutBytes: frames form a linked list and report the last executed
	// instruction as a byte offset directly.
	LayoutBytes StackLayout = iota

	// LayoutWords: same linked shape, but the last executed instruction is
	// counted in fixed-size code words and must be scaled to bytes.
	LayoutWords

	// LayoutInternal: the host exposes its raw internal frame structs.
	// Frames still under construction are reported as incomplete and must
	// be skipped. Instruction offsets are counted in code words.
	LayoutInternal
)

// CodeWordSize is the byte width of one instruction word on word-counted
// layouts. Resolvers always work in byte offsets; walkers normalize.
const CodeWordSize = 2

// ThreadState is the host's view of one executing thread. The concrete
// shape depends on the host's StackLayout; each walker variant asserts the
// matching sub-interface below.
type ThreadState interface{}

// FrameBytes is one activation record on LayoutBytes hosts.
// Back returns nil (a nil interface, not a typed nil) at the outermost frame.
type FrameBytes interface {
	Code() Code
	LastInstr() int // byte offset of the last executed instruction
	Back() FrameBytes
}

// ThreadStateBytes is the thread state shape for LayoutBytes hosts.
type ThreadStateBytes interface {
	Frame() FrameBytes // innermost active frame, nil if no call is active
}

// FrameWords is one activation record on LayoutWords hosts.
type FrameWords interface {
	Code() Code
	LastInstrWord() int // offset counted in CodeWordSize units
	Back() FrameWords
}

// ThreadStateWords is the thread state shape for LayoutWords hosts.
type ThreadStateWords interface {
	Frame() FrameWords
}

// FrameInternal is one raw internal activation record on LayoutInternal
// hosts. Incomplete frames are not yet eligible for inspection.
type FrameInternal interface {
	Code() Code
	LastInstrWord() int
	Previous() FrameInternal
	Incomplete() bool
}

// ThreadStateInternal is the thread state shape for LayoutInternal hosts.
type ThreadStateInternal interface {
	CurrentFrame() FrameInternal
}

// String returns a human-readable layout name.
func (l StackLayout) String() string {
	switch l {
	case LayoutBytes:
		return "bytes"
	case LayoutWords:
		return "words"
	case LayoutInternal:
		return "internal"
	default:
		return "unknown"
	}
}
