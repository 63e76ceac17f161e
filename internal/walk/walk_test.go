package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracecap/internal/base"
	"tracecap/internal/hosttest"
)

func release(lock *hosttest.Lock, frames []base.RawFrame) {
	lock.With(func() {
		for _, f := range frames {
			f.ReleaseLocked(lock)
		}
	})
}

func TestBytesWalkerCapturesInnermostFirst(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	outer := hosttest.NewCode("app.ms", "main", 1)
	inner := hosttest.NewCode("app.ms", "handler", 20)

	ts := hosttest.NewBytesThread(
		hosttest.StackFrame{Code: inner, Lasti: 6},
		hosttest.StackFrame{Code: outer, Lasti: 14},
	)

	w, err := ForLayout(base.LayoutBytes, lock)
	require.NoError(t, err)

	var frames []base.RawFrame
	lock.With(func() {
		frames = w.Walk(ts)
	})

	require.Len(t, frames, 2)
	assert.Equal(t, inner.ID(), frames[0].Code().ID())
	assert.Equal(t, 6, frames[0].Offset(), "byte offsets pass through unscaled")
	assert.Equal(t, outer.ID(), frames[1].Code().ID())
	assert.Equal(t, 14, frames[1].Offset())

	assert.Equal(t, int32(1), inner.Refs(), "one reference acquired per captured frame")
	assert.Equal(t, int32(1), outer.Refs())

	release(lock, frames)
	assert.Equal(t, int32(0), hosttest.TotalRefs(inner, outer))
}

func TestWordsWalkerNormalizesOffsetsToBytes(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	code := hosttest.NewCode("app.ms", "loop", 3)

	ts := hosttest.NewWordsThread(
		hosttest.StackFrame{Code: code, Lasti: 7},
	)

	w, err := ForLayout(base.LayoutWords, lock)
	require.NoError(t, err)

	var frames []base.RawFrame
	lock.With(func() {
		frames = w.Walk(ts)
	})

	require.Len(t, frames, 1)
	assert.Equal(t, 7*base.CodeWordSize, frames[0].Offset())

	release(lock, frames)
}

func TestInternalWalkerSkipsIncompleteFrames(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	done := hosttest.NewCode("app.ms", "done", 1)
	pending := hosttest.NewCode("app.ms", "pending", 9)
	outer := hosttest.NewCode("app.ms", "outer", 30)

	ts := hosttest.NewInternalThread(
		hosttest.StackFrame{Code: done, Lasti: 2},
		hosttest.StackFrame{Code: pending, Lasti: 0, Incomplete: true},
		hosttest.StackFrame{Code: outer, Lasti: 5},
	)

	w, err := ForLayout(base.LayoutInternal, lock)
	require.NoError(t, err)

	var frames []base.RawFrame
	lock.With(func() {
		frames = w.Walk(ts)
	})

	require.Len(t, frames, 2, "incomplete frame skipped")
	assert.Equal(t, done.ID(), frames[0].Code().ID())
	assert.Equal(t, 2*base.CodeWordSize, frames[0].Offset())
	assert.Equal(t, outer.ID(), frames[1].Code().ID())
	assert.Equal(t, int32(0), pending.Refs(), "no reference acquired for skipped frames")

	release(lock, frames)
}

func TestWalkEmptyStack(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	w, err := ForLayout(base.LayoutBytes, lock)
	require.NoError(t, err)

	lock.With(func() {
		assert.Empty(t, w.Walk(hosttest.NewBytesThread()))
	})
}

func TestWalkRequiresLock(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	code := hosttest.NewCode("app.ms", "f", 1)
	ts := hosttest.NewBytesThread(hosttest.StackFrame{Code: code, Lasti: 0})

	w, err := ForLayout(base.LayoutBytes, lock)
	require.NoError(t, err)

	assert.Panics(t, func() {
		w.Walk(ts)
	})
}

func TestWalkPanicsOnLayoutMismatch(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	w, err := ForLayout(base.LayoutWords, lock)
	require.NoError(t, err)

	lock.With(func() {
		assert.Panics(t, func() {
			w.Walk(hosttest.NewBytesThread())
		})
	})
}

func TestForLayoutRejectsUnknownLayout(t *testing.T) {
	t.Parallel()

	_, err := ForLayout(base.StackLayout(99), hosttest.NewLock())
	assert.Error(t, err)
}
