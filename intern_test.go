package tracecap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracecap/internal/hosttest"
)

func TestInternDeduplicatesSameSiteCaptures(t *testing.T) {
	t.Parallel()

	tracer, host := newTracer(t, WithInternCache(8))
	f, g, h := fgh(host)

	host.Exec.With(func() {
		a := tracer.Get()
		b := tracer.Get()

		assert.Same(t, a, b, "equal captures share one canonical snapshot")
		assert.Equal(t, int32(3), hosttest.TotalRefs(f, g, h), "the duplicate capture was released")

		stats := tracer.InternStats()
		assert.Equal(t, uint64(1), stats.Hits)
		assert.Equal(t, 1, stats.Len)

		a.Release()
		b.Release()
		// The cache still holds its own reference.
		assert.Equal(t, int32(3), hosttest.TotalRefs(f, g, h))
	})
}

func TestInternKeepsDistinctCapturesApart(t *testing.T) {
	t.Parallel()

	tracer, host := newTracer(t, WithInternCache(8))
	_, g, h := fgh(host)

	host.Exec.With(func() {
		a := tracer.Get()

		host.Thread = hosttest.NewBytesThread(
			hosttest.StackFrame{Code: h, Lasti: 0},
			hosttest.StackFrame{Code: g, Lasti: 2},
		)
		b := tracer.Get()

		assert.NotSame(t, a, b)
		assert.False(t, a.Equal(b))
		assert.Equal(t, 2, tracer.InternStats().Len)

		a.Release()
		b.Release()
	})
}

func TestInternEvictionReleasesCanonicalReference(t *testing.T) {
	t.Parallel()

	tracer, host := newTracer(t, WithInternCache(4))
	code := hosttest.NewCode("hot.ms", "spin", 1)

	host.Exec.With(func() {
		// Many distinct call sites through a bounded cache: older canonical
		// snapshots must be evicted and their references released.
		for lasti := 0; lasti < 64; lasti += 2 {
			host.Thread = hosttest.NewBytesThread(hosttest.StackFrame{Code: code, Lasti: lasti})
			tb := tracer.Get()
			require.NotNil(t, tb)
			tb.Release()
		}

		cached := tracer.InternStats().Len
		assert.Less(t, cached, 32, "capacity pressure evicted older snapshots")
		assert.Equal(t, int32(cached), code.Refs(), "only cached snapshots still hold references")
	})
	assert.Equal(t, 0, tracer.Pending(), "evictions under the lock release immediately")
}

func TestInternDisabledByDefault(t *testing.T) {
	t.Parallel()

	tracer, host := newTracer(t)
	fgh(host)

	host.Exec.With(func() {
		a := tracer.Get()
		b := tracer.Get()
		assert.NotSame(t, a, b)
		assert.Equal(t, InternStats{}, tracer.InternStats())
		a.Release()
		b.Release()
	})
}
