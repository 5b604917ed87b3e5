package identity

import (
	"fmt"
	"os"
)

// Context identifies one flow of control: the process it belongs to, that
// process's parent, and the OS thread it was observed on.
type Context struct {
	PID  int
	PPID int
	// TID is 0 when the platform does not expose thread ids.
	TID int
	// ParentTID is the TID of the context that spawned this one; 0 for main.
	ParentTID int
}

var (
	getpidFn  = os.Getpid
	getppidFn = parentPID
	gettidFn  = gettid
)

// Current reports the identity of the calling goroutine's OS thread.
// Callers that need a stable TID must hold runtime.LockOSThread.
func Current() Context {
	pid := getpidFn()
	return Context{
		PID:  pid,
		PPID: getppidFn(pid),
		TID:  gettidFn(),
	}
}

// SpawnedBy returns c annotated with the thread that created it.
func (c Context) SpawnedBy(parent Context) Context {
	c.ParentTID = parent.TID
	return c
}

// SameProcess reports whether both contexts live in one OS process.
func (c Context) SameProcess(other Context) bool {
	return c.PID == other.PID && c.PPID == other.PPID
}

func (c Context) String() string {
	if c.TID == 0 {
		return fmt.Sprintf("pid=%d ppid=%d", c.PID, c.PPID)
	}
	return fmt.Sprintf("pid=%d ppid=%d tid=%d", c.PID, c.PPID, c.TID)
}
