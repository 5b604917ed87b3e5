package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"create-thread/internal/identity"
)

// CleanupStats summarises one CleanupOldLogs pass.
type CleanupStats struct {
	Scanned      int
	Deleted      int
	Kept         int
	Errors       int
	DeletedFiles []string
	KeptFiles    []string
}

var (
	processRunningCheck = identity.IsProcessRunning
	processStartTimeFn  = identity.ProcessStartTime
	removeLogFileFn     = os.Remove
	globLogFiles        = filepath.Glob
	fileStatFn          = os.Lstat
	evalSymlinksFn      = filepath.EvalSymlinks
)

// CleanupOldLogs removes log files left behind by runs whose process is gone.
func CleanupOldLogs() (CleanupStats, error) { return cleanupOldLogs() }

func cleanupOldLogs() (CleanupStats, error) {
	var stats CleanupStats
	tempDir := os.TempDir()

	var matches []string
	for _, prefix := range LogPrefixes() {
		found, err := globLogFiles(filepath.Join(tempDir, prefix+"-*.log"))
		if err != nil {
			logWarn(fmt.Sprintf("cleanupOldLogs: failed to list logs: %v", err))
			return stats, fmt.Errorf("cleanupOldLogs: %w", err)
		}
		matches = append(matches, found...)
	}

	var removeErr error
	self := os.Getpid()

	for _, path := range matches {
		stats.Scanned++
		keep := func() {
			stats.Kept++
			stats.KeptFiles = append(stats.KeptFiles, path)
		}

		pid, ok := parsePIDFromLog(path)
		if !ok || pid == self {
			keep()
			continue
		}
		if unsafe, reason := isUnsafeFile(path, tempDir); unsafe {
			logWarn(fmt.Sprintf("cleanupOldLogs: skipping %s: %s", path, reason))
			keep()
			continue
		}
		if processRunningCheck(pid) && !isPIDReused(path, pid) {
			keep()
			continue
		}

		if err := removeLogFileFn(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			stats.Errors++
			logWarn(fmt.Sprintf("cleanupOldLogs: failed to remove %s: %v", path, err))
			removeErr = errors.Join(removeErr, fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err))
			continue
		}
		stats.Deleted++
		stats.DeletedFiles = append(stats.DeletedFiles, path)
	}

	if removeErr != nil {
		return stats, fmt.Errorf("cleanupOldLogs: %w", removeErr)
	}
	return stats, nil
}

// isUnsafeFile refuses symlinks, non-regular files and files that resolve
// outside the temp directory.
func isUnsafeFile(path, tempDir string) (bool, string) {
	info, err := fileStatFn(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, ""
		}
		return true, fmt.Sprintf("stat failed: %v", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true, "refusing to delete symlink"
	}
	if !info.Mode().IsRegular() {
		return true, "not a regular file"
	}

	resolvedPath, err := evalSymlinksFn(path)
	if err != nil {
		return true, fmt.Sprintf("path resolution failed: %v", err)
	}
	resolvedTemp, err := evalSymlinksFn(tempDir)
	if err != nil {
		resolvedTemp = filepath.Clean(tempDir)
	}
	rel, err := filepath.Rel(resolvedTemp, resolvedPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true, "file is outside tempDir"
	}
	return false, ""
}

// isPIDReused reports whether pid's current owner started after the log
// file was last written.
func isPIDReused(path string, pid int) bool {
	info, err := fileStatFn(path)
	if err != nil {
		return false
	}
	start := processStartTimeFn(pid)
	if start.IsZero() {
		return false
	}
	return start.After(info.ModTime().Add(time.Second))
}

// parsePIDFromLog extracts the pid from create-thread-<pid>[-suffix].log.
func parsePIDFromLog(path string) (int, bool) {
	base := filepath.Base(path)
	for _, prefix := range LogPrefixes() {
		rest, ok := strings.CutPrefix(base, prefix+"-")
		if !ok {
			continue
		}
		rest = strings.TrimSuffix(rest, ".log")
		if i := strings.IndexByte(rest, '-'); i >= 0 {
			rest = rest[:i]
		}
		if rest == "" {
			return 0, false
		}
		pid, err := strconv.Atoi(rest)
		if err != nil || pid <= 0 {
			return 0, false
		}
		return pid, true
	}
	return 0, false
}
