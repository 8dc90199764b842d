package simulation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/voxelcastle/geosim/core"
)

// snapshotQueueCapacity is the bounded drop-oldest queue size.
const snapshotQueueCapacity = 10

// Runner wraps a Simulator in a dedicated worker goroutine: two atomic
// flags (running, paused) govern the worker, and it publishes snapshots
// into a bounded drop-oldest queue guarded by a mutex.
type Runner struct {
	sim *Simulator

	running atomic.Bool
	paused  atomic.Bool

	mu    sync.Mutex
	queue []*core.Snapshot

	done chan struct{}
}

// NewRunner wraps sim. sim must already be Initialized.
func NewRunner(sim *Simulator) *Runner {
	r := &Runner{sim: sim, done: make(chan struct{})}
	sim.SetSnapshotCallback(r.publish)
	return r
}

// Start launches the worker goroutine. It is a no-op if already running.
func (r *Runner) Start() {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	r.done = make(chan struct{})
	go r.loop()
}

func (r *Runner) loop() {
	defer close(r.done)
	for r.running.Load() {
		if r.paused.Load() {
			time.Sleep(50 * time.Millisecond)
			continue
		}
		if !r.sim.Step() {
			if r.paused.Load() {
				continue // paused between the check above and Step
			}
			r.running.Store(false)
			return
		}
	}
}

// Pause sets the paused flag; the worker polls it between steps and sleeps
// ~50ms while paused.
func (r *Runner) Pause() {
	r.paused.Store(true)
	r.sim.Pause()
}

// Resume clears the paused flag.
func (r *Runner) Resume() {
	r.paused.Store(false)
	r.sim.Resume()
}

// IsPaused reports the worker's paused flag.
func (r *Runner) IsPaused() bool { return r.paused.Load() }

// IsRunning reports the worker's running flag.
func (r *Runner) IsRunning() bool { return r.running.Load() }

// Stop sets running = false and joins the worker.
func (r *Runner) Stop() {
	r.running.Store(false)
	<-r.done
}

// publish appends a snapshot to the bounded queue, dropping the oldest
// entry when full.
func (r *Runner) publish(snap *core.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) >= snapshotQueueCapacity {
		r.queue = r.queue[1:]
	}
	r.queue = append(r.queue, snap)
}

// LatestSnapshot returns the most recently published snapshot, or nil if
// none has been produced yet.
func (r *Runner) LatestSnapshot() *core.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil
	}
	return r.queue[len(r.queue)-1]
}

// SnapshotCount reports how many snapshots are currently queued.
func (r *Runner) SnapshotCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// DequeueSnapshot removes and returns the oldest queued snapshot, or nil if
// the queue is empty.
func (r *Runner) DequeueSnapshot() *core.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil
	}
	snap := r.queue[0]
	r.queue = r.queue[1:]
	return snap
}
