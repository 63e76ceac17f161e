// Package reclaim defers the release of code-unit references to a point
// where the execution lock is held.
//
// Snapshots can lose their last reference on threads that do not hold the
// execution lock (unrelated cleanup, cache eviction), but decrementing a
// code unit's count is only safe under that lock. Instead of taking the
// lock itself (deadlock risk), the owner moves its frames here; the host's
// GC hook drains the queue under the lock.
package reclaim

import (
	"sync"

	"tracecap/internal/base"
)

// Queue is a process-wide staging area for frames awaiting release.
// The zero value is ready to use.
type Queue struct {
	mu      sync.Mutex
	batches [][]base.RawFrame
	pending int
}

// Append stages a batch of frames for later release. Safe to call without
// the execution lock and from any number of goroutines concurrently.
// Append never fails; ownership of the frames transfers to the queue.
func (q *Queue) Append(frames []base.RawFrame) {
	if len(frames) == 0 {
		return
	}
	q.mu.Lock()
	q.batches = append(q.batches, frames)
	q.pending += len(frames)
	q.mu.Unlock()
}

// Drain releases every queued code-unit reference and empties the queue,
// returning the number of frames released. Requires the execution lock.
// Draining an empty queue is a no-op.
func (q *Queue) Drain(lock base.ExecLock) int {
	base.AssertLocked(lock)

	q.mu.Lock()
	batches := q.batches
	q.batches = nil
	q.pending = 0
	q.mu.Unlock()

	released := 0
	for _, frames := range batches {
		for _, f := range frames {
			f.ReleaseLocked(lock)
			released++
		}
	}
	return released
}

// Len returns the number of frames currently staged.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
