package base

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Ref owns exactly one counted reference to a code unit. Constructing one
// through Capture increments the host's count; ReleaseLocked decrements it.
// Making ownership a value instead of a convention keeps the
// acquire-once/release-once invariant visible in the code.
type Ref struct {
	code Code
}

// Capture acquires a counted reference to code and pairs it with the byte
// offset of the instruction executing in that frame. Execution lock required.
func Capture(lock ExecLock, code Code, offset int) RawFrame {
	AssertLocked(lock)
	code.Retain()
	return RawFrame{ref: Ref{code: code}, offset: offset}
}

// RawFrame identifies one point of execution: a code unit plus the byte
// offset of its last executed instruction. Immutable once captured. The
// embedded Ref owns one reference to the code unit.
type RawFrame struct {
	ref    Ref
	offset int
}

// Code returns the frame's code unit. The reference stays owned by the
// frame; callers that need it to outlive the frame must retain it
// themselves under the execution lock.
func (f RawFrame) Code() Code { return f.ref.code }

// Offset returns the byte offset of the last executed instruction.
func (f RawFrame) Offset() int { return f.offset }

// ReleaseLocked releases the frame's code reference. Execution lock
// required. Releasing without the lock goes through the reclamation queue
// instead.
func (f RawFrame) ReleaseLocked(lock ExecLock) {
	AssertLocked(lock)
	f.ref.code.Release()
}

// FrameDesc is the resolved, display-only projection of a RawFrame.
// Descriptors are recomputed on every request, never cached.
type FrameDesc struct {
	FileName          string
	FunctionName      string
	FunctionStartLine int
	Line              int
}

// HashFrames computes a structural hash over the (code identity, offset)
// pairs of a captured stack. It needs no lock: identities and offsets are
// plain integers captured at walk time.
func HashFrames(frames []RawFrame) uint64 {
	var buf [16]byte
	d := xxhash.New()
	for _, f := range frames {
		binary.LittleEndian.PutUint64(buf[0:8], f.ref.code.ID())
		binary.LittleEndian.PutUint64(buf[8:16], uint64(int64(f.offset)))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// EqualFrames reports whether two captured stacks reference the identical
// code units at the identical offsets in the identical order.
func EqualFrames(a, b []RawFrame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ref.code.ID() != b[i].ref.code.ID() || a[i].offset != b[i].offset {
			return false
		}
	}
	return true
}
