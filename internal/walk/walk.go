// Package walk captures the active call stack of the calling thread.
//
// Host runtime builds expose three incompatible physical frame layouts
// (base.StackLayout). Each layout gets its own walker; the variant is
// selected once at Tracer construction, not per capture. All variants
// produce the same logical result: (code unit, byte offset) pairs from the
// innermost to the outermost frame, with one counted code reference
// acquired per captured frame.
package walk

import (
	"fmt"

	"tracecap/internal/base"
)

// Walker captures the call stack described by a thread state. The caller
// must hold the execution lock. The only allocation is the returned slice.
type Walker interface {
	Walk(ts base.ThreadState) []base.RawFrame
}

// ForLayout returns the walker variant for the given frame layout.
func ForLayout(layout base.StackLayout, lock base.ExecLock) (Walker, error) {
	switch layout {
	case base.LayoutBytes:
		return bytesWalker{lock: lock}, nil
	case base.LayoutWords:
		return wordsWalker{lock: lock}, nil
	case base.LayoutInternal:
		return internalWalker{lock: lock}, nil
	default:
		return nil, fmt.Errorf("unknown stack layout %d", layout)
	}
}

// bytesWalker handles hosts whose frames already report byte offsets.
type bytesWalker struct {
	lock base.ExecLock
}

func (w bytesWalker) Walk(ts base.ThreadState) []base.RawFrame {
	if ts == nil {
		return nil
	}
	t, ok := ts.(base.ThreadStateBytes)
	if !ok {
		panic(layoutMismatch(base.LayoutBytes, ts))
	}
	base.AssertLocked(w.lock)

	var frames []base.RawFrame
	for f := t.Frame(); f != nil; f = f.Back() {
		frames = append(frames, base.Capture(w.lock, f.Code(), f.LastInstr()))
	}
	return frames
}

// wordsWalker handles hosts that count the last executed instruction in
// code words; offsets are scaled to bytes so the resolver sees one unit.
type wordsWalker struct {
	lock base.ExecLock
}

func (w wordsWalker) Walk(ts base.ThreadState) []base.RawFrame {
	if ts == nil {
		return nil
	}
	t, ok := ts.(base.ThreadStateWords)
	if !ok {
		panic(layoutMismatch(base.LayoutWords, ts))
	}
	base.AssertLocked(w.lock)

	var frames []base.RawFrame
	for f := t.Frame(); f != nil; f = f.Back() {
		offset := f.LastInstrWord() * base.CodeWordSize
		frames = append(frames, base.Capture(w.lock, f.Code(), offset))
	}
	return frames
}

// internalWalker handles hosts exposing raw internal frames. Frames still
// under construction are skipped; they are not yet eligible for inspection.
type internalWalker struct {
	lock base.ExecLock
}

func (w internalWalker) Walk(ts base.ThreadState) []base.RawFrame {
	if ts == nil {
		return nil
	}
	t, ok := ts.(base.ThreadStateInternal)
	if !ok {
		panic(layoutMismatch(base.LayoutInternal, ts))
	}
	base.AssertLocked(w.lock)

	var frames []base.RawFrame
	for f := t.CurrentFrame(); f != nil; f = f.Previous() {
		if f.Incomplete() {
			continue
		}
		offset := f.LastInstrWord() * base.CodeWordSize
		frames = append(frames, base.Capture(w.lock, f.Code(), offset))
	}
	return frames
}

func layoutMismatch(want base.StackLayout, got base.ThreadState) string {
	return fmt.Sprintf("tracecap: thread state %T does not match host layout %q", got, want)
}
