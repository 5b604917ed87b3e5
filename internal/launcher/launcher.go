// Package launcher spawns a single worker thread, hands it an immutable
// message and joins it.
package launcher

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"create-thread/internal/identity"
	"create-thread/internal/logger"
	"create-thread/internal/report"
)

// ErrResourceExhausted means no new thread could be created. It is fatal.
var ErrResourceExhausted = errors.New("resource exhausted: cannot create worker thread")

var (
	startThreadFn = startThread
	sleepFn       = time.Sleep
)

// startThread runs body on a fresh goroutine wired to its own OS thread.
// The thread is never unlocked, so the runtime retires it once body returns.
// The Go runtime aborts the process by itself when it cannot create a thread.
func startThread(body func()) error {
	go func() {
		runtime.LockOSThread()
		body()
	}()
	return nil
}

type Launcher struct {
	reporter report.Reporter
	delay    time.Duration
}

// New returns a Launcher that reports through r. A negative delay is
// treated as zero.
func New(r report.Reporter, delay time.Duration) *Launcher {
	if delay < 0 {
		delay = 0
	}
	return &Launcher{reporter: r, delay: delay}
}

func (l *Launcher) Delay() time.Duration { return l.delay }

// ReportMain prints the calling context's identity.
func (l *Launcher) ReportMain() identity.Context {
	ctx := identity.Current()
	if err := l.reporter.Main(ctx); err != nil {
		logger.LogWarn(fmt.Sprintf("failed to write main report: %v", err))
	}
	logger.LogInfo(fmt.Sprintf("main: %s", ctx))
	return ctx
}

// RunWorker executes the worker body synchronously in the calling context:
// report identity and message, then sleep for the configured delay.
func (l *Launcher) RunWorker(message string) identity.Context {
	return l.runWorker(identity.Context{}, message)
}

func (l *Launcher) runWorker(parent identity.Context, message string) identity.Context {
	ctx := identity.Current().SpawnedBy(parent)
	if err := l.reporter.Worker(ctx, message); err != nil {
		logger.LogWarn(fmt.Sprintf("failed to write worker report: %v", err))
	}
	logger.LogDebug(fmt.Sprintf("worker %s sleeping %s", ctx, l.delay))
	sleepFn(l.delay)
	return ctx
}

// Spawn starts one worker thread bound to RunWorker(message) and returns
// its join handle without waiting.
func (l *Launcher) Spawn(message string) (*Worker, error) {
	return l.spawn(identity.Current(), message)
}

func (l *Launcher) spawn(parent identity.Context, message string) (*Worker, error) {
	w := newWorker(message)

	err := startThreadFn(func() {
		ctx := l.runWorker(parent, message)
		w.finish(ctx)
	})
	if err != nil {
		logger.LogError(fmt.Sprintf("failed to start worker: %v", err))
		return nil, fmt.Errorf("spawn worker: %w", err)
	}
	logger.LogInfo("worker started")
	return w, nil
}

// SpawnAndWait spawns a worker and blocks until it has terminated.
func (l *Launcher) SpawnAndWait(message string) (*Worker, error) {
	return l.join(l.Spawn(message))
}

func (l *Launcher) join(w *Worker, err error) (*Worker, error) {
	if err != nil {
		return nil, err
	}
	w.Wait()
	logger.LogInfo(fmt.Sprintf("worker terminated after %s", w.Elapsed()))
	return w, nil
}

// Run reports the main context, then spawns and joins the worker.
func (l *Launcher) Run(message string) (identity.Context, *Worker, error) {
	mainCtx := l.ReportMain()
	w, err := l.join(l.spawn(mainCtx, message))
	return mainCtx, w, err
}
