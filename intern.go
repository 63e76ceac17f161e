package tracecap

import "tracecap/internal/depot"

// InternStats reports intern-cache effectiveness counters.
type InternStats = depot.Stats

// intern folds a freshly captured Traceback into the canonical snapshot
// for its call site, if one is cached. Runs under the execution lock (Get
// holds it), which also serializes retains against evictions.
func (t *Tracer) intern(tb *Traceback) *Traceback {
	hash := tb.Hash()

	if hit, ok := t.interns.Get(hash); ok {
		if hit.Equal(tb) {
			hit.Retain()
			tb.Release() // lock is held, so the fresh capture releases immediately
			return hit
		}
		// Hash collision: serve the fresh capture uncached.
		return tb
	}

	tb.Retain() // the cache's own reference
	t.interns.Put(hash, tb)
	return tb
}

// InternStats returns hit/miss counters and the current size of the
// intern cache. Zero values when interning is not configured.
func (t *Tracer) InternStats() InternStats {
	if t.interns == nil {
		return InternStats{}
	}
	return t.interns.Stats()
}
