package launcher

import (
	"sync/atomic"
	"time"

	"create-thread/internal/identity"
)

// State is the lifecycle state of a spawned worker.
type State int32

const (
	StateRunning State = iota + 1
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Worker is the join handle of one spawned thread. A worker ends only when
// its body returns; nothing here can stop it earlier.
type Worker struct {
	message  string
	started  time.Time
	finished time.Time
	ctx      identity.Context
	state    atomic.Int32
	done     chan struct{}
}

func newWorker(message string) *Worker {
	w := &Worker{
		message: message,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	w.state.Store(int32(StateRunning))
	return w
}

func (w *Worker) finish(ctx identity.Context) {
	w.ctx = ctx
	w.finished = time.Now()
	w.state.Store(int32(StateTerminated))
	close(w.done)
}

// Wait blocks until the worker's body has returned.
func (w *Worker) Wait() {
	<-w.done
}

// Done is closed once the worker has terminated.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) State() State {
	return State(w.state.Load())
}

func (w *Worker) Message() string {
	return w.message
}

// Identity returns the context the worker reported, or the zero Context
// while it is still running.
func (w *Worker) Identity() identity.Context {
	select {
	case <-w.done:
		return w.ctx
	default:
		return identity.Context{}
	}
}

// Elapsed is the worker's lifetime; zero while running.
func (w *Worker) Elapsed() time.Duration {
	select {
	case <-w.done:
		return w.finished.Sub(w.started)
	default:
		return 0
	}
}
