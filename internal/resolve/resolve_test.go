package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracecap/internal/base"
	"tracecap/internal/hosttest"
)

func lineTable() []hosttest.LineEntry {
	return []hosttest.LineEntry{
		{Offset: 0, Line: 10},
		{Offset: 4, Line: 11},
		{Offset: 12, Line: 14},
	}
}

func TestFramesResolvesDescriptors(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	code := hosttest.NewCode("srv.ms", "dispatch", 10, lineTable()...)

	var frames []base.RawFrame
	lock.With(func() {
		frames = []base.RawFrame{base.Capture(lock, code, 6)}
	})

	var descs []base.FrameDesc
	lock.With(func() {
		descs = Frames(lock, frames)
	})

	require.Len(t, descs, 1)
	assert.Equal(t, "srv.ms", descs[0].FileName)
	assert.Equal(t, "dispatch", descs[0].FunctionName)
	assert.Equal(t, 10, descs[0].FunctionStartLine)
	assert.Equal(t, 11, descs[0].Line, "offset 6 falls in the entry starting at offset 4")
}

func TestFramesIsPure(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	code := hosttest.NewCode("srv.ms", "dispatch", 10, lineTable()...)

	var frames []base.RawFrame
	lock.With(func() {
		frames = []base.RawFrame{
			base.Capture(lock, code, 0),
			base.Capture(lock, code, 12),
		}
	})

	lock.With(func() {
		first := Frames(lock, frames)
		second := Frames(lock, frames)
		assert.Equal(t, first, second, "resolution is pure given the same offsets and code units")
	})
}

func TestFramesRequiresLock(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	assert.Panics(t, func() {
		Frames(lock, nil)
	})
}

func TestAddr2LineZeroOffsetIsFirstLine(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	code := hosttest.NewCode("srv.ms", "dispatch", 10, lineTable()...)

	lock.With(func() {
		line, err := Addr2Line(lock, code, 0)
		require.NoError(t, err)
		assert.Equal(t, 10, line)

		// A frame that has not executed an instruction yet reports a
		// negative offset; it also resolves to the first line.
		line, err = Addr2Line(lock, code, -1)
		require.NoError(t, err)
		assert.Equal(t, 10, line)
	})
}

func TestAddr2LineRejectsNonCodeHandles(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	lock.With(func() {
		_, err := Addr2Line(lock, "not a code unit", 0)
		assert.ErrorIs(t, err, base.ErrNotCode)

		_, err = Addr2Line(lock, nil, 0)
		assert.ErrorIs(t, err, base.ErrNotCode)
	})
}

func TestAddr2LocationRequiresCapability(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	plain := hosttest.NewCode("srv.ms", "dispatch", 10)

	lock.With(func() {
		_, err := Addr2Location(lock, plain, 0)
		assert.ErrorIs(t, err, base.ErrLocationUnsupported)
	})
}

func TestAddr2LocationResolvesRichLocation(t *testing.T) {
	t.Parallel()

	lock := hosttest.NewLock()
	code := hosttest.NewLocCode("srv.ms", "dispatch", 10,
		hosttest.LocEntry{Offset: 0, Location: base.Location{StartLine: 10, StartCol: 5, EndLine: 10, EndCol: 18}},
		hosttest.LocEntry{Offset: 8, Location: base.Location{StartLine: 12, StartCol: 1, EndLine: 13, EndCol: 9}},
	)

	lock.With(func() {
		loc, err := Addr2Location(lock, code, 9)
		require.NoError(t, err)
		assert.Equal(t, base.Location{StartLine: 12, StartCol: 1, EndLine: 13, EndCol: 9}, loc)

		_, err = Addr2Location(lock, 42, 0)
		assert.ErrorIs(t, err, base.ErrNotCode)
	})
}
