package identity

import (
	"errors"
	"math"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

func pidToInt32(pid int) (int32, bool) {
	if pid <= 0 || pid > math.MaxInt32 {
		return 0, false
	}
	return int32(pid), true
}

// parentPID asks the process table for pid's parent and falls back to the
// runtime's own view when the table cannot be read.
func parentPID(pid int) int {
	pid32, ok := pidToInt32(pid)
	if !ok {
		return os.Getppid()
	}

	proc, err := process.NewProcess(pid32)
	if err != nil {
		return os.Getppid()
	}
	ppid, err := proc.Ppid()
	if err != nil || ppid <= 0 {
		return os.Getppid()
	}
	return int(ppid)
}

// isProcessRunning reports whether a process with the given pid appears to be running.
// It is intentionally conservative on errors to avoid deleting logs for live processes.
func isProcessRunning(pid int) bool {
	pid32, ok := pidToInt32(pid)
	if !ok {
		return false
	}

	exists, err := process.PidExists(pid32)
	if err == nil {
		return exists
	}

	if errors.Is(err, process.ErrorProcessNotRunning) {
		return false
	}

	// Permission/inspection failures: assume it's running.
	return true
}

// getProcessStartTime returns zero time if the start time cannot be determined.
func getProcessStartTime(pid int) time.Time {
	pid32, ok := pidToInt32(pid)
	if !ok {
		return time.Time{}
	}

	proc, err := process.NewProcess(pid32)
	if err != nil {
		return time.Time{}
	}

	ms, err := proc.CreateTime()
	if err != nil || ms <= 0 {
		return time.Time{}
	}

	return time.UnixMilli(ms)
}

// ThreadCount returns the number of OS threads in pid, or 0 if unknown.
func ThreadCount(pid int) int {
	pid32, ok := pidToInt32(pid)
	if !ok {
		return 0
	}
	proc, err := process.NewProcess(pid32)
	if err != nil {
		return 0
	}
	n, err := proc.NumThreads()
	if err != nil {
		return 0
	}
	return int(n)
}

func IsProcessRunning(pid int) bool { return isProcessRunning(pid) }

func ProcessStartTime(pid int) time.Time { return getProcessStartTime(pid) }
