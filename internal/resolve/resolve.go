// Package resolve converts captured (code unit, offset) pairs into
// human-readable frame descriptors. Resolution reads string-valued fields
// off host-owned code units, so every entry point requires the execution
// lock.
package resolve

import "tracecap/internal/base"

// Frames resolves a captured stack into display descriptors, in capture
// order (innermost first). Descriptors are recomputed on every call; given
// the same code units and offsets the result is identical.
func Frames(lock base.ExecLock, frames []base.RawFrame) []base.FrameDesc {
	base.AssertLocked(lock)

	out := make([]base.FrameDesc, 0, len(frames))
	for _, f := range frames {
		code := f.Code()
		out = append(out, base.FrameDesc{
			FileName:          code.FileName(),
			FunctionName:      code.Name(),
			FunctionStartLine: code.FirstLine(),
			Line:              Line(code, f.Offset()),
		})
	}
	return out
}

// Line returns the source line active at the given byte offset of a code
// unit. Offsets at or below zero (a frame that has not executed an
// instruction yet) resolve to the unit's first line.
func Line(code base.Code, offset int) int {
	if offset <= 0 {
		return code.FirstLine()
	}
	return code.LineAt(offset)
}

// Addr2Line is the standalone form of Line for callers that manage their
// own code-unit references. It rejects handles that are not code units.
func Addr2Line(lock base.ExecLock, code any, offset int) (int, error) {
	base.AssertLocked(lock)

	c, ok := code.(base.Code)
	if !ok || c == nil {
		return 0, base.ErrNotCode
	}
	return Line(c, offset), nil
}

// Addr2Location returns full location info at the given byte offset, on
// hosts that track it. Hosts without the capability yield
// base.ErrLocationUnsupported.
func Addr2Location(lock base.ExecLock, code any, offset int) (base.Location, error) {
	base.AssertLocked(lock)

	c, ok := code.(base.Code)
	if !ok || c == nil {
		return base.Location{}, base.ErrNotCode
	}
	lc, ok := c.(base.LocatableCode)
	if !ok {
		return base.Location{}, base.ErrLocationUnsupported
	}
	if offset < 0 {
		offset = 0
	}
	return lc.LocationAt(offset), nil
}
