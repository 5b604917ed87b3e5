package logger

import (
	"bufio"
	"bytes"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Logger writes JSON lines to a per-process file under the temp directory.
// It is safe for concurrent use; calls after Close are dropped.
type Logger struct {
	path   string
	file   *os.File
	zl     zerolog.Logger
	mu     sync.RWMutex
	closed atomic.Bool
}

// NewLogger creates $TMPDIR/create-thread-<pid>.log.
func NewLogger() (*Logger, error) {
	return NewLoggerWithSuffix("")
}

// NewLoggerWithSuffix creates $TMPDIR/create-thread-<pid>-<suffix>.log.
func NewLoggerWithSuffix(suffix string) (*Logger, error) {
	name := fmt.Sprintf("%s-%d", PrimaryLogPrefix(), os.Getpid())
	if strings.TrimSpace(suffix) != "" {
		name += "-" + sanitizeLogSuffix(suffix)
	}
	path := filepath.Join(os.TempDir(), name+".log")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	zl := zerolog.New(zerolog.SyncWriter(f)).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger().
		Level(zerolog.DebugLevel)

	return &Logger{path: path, file: f, zl: zl}, nil
}

func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logger) Debug(msg string) { l.log(zerolog.DebugLevel, msg) }

func (l *Logger) Info(msg string) { l.log(zerolog.InfoLevel, msg) }

func (l *Logger) Warn(msg string) { l.log(zerolog.WarnLevel, msg) }

func (l *Logger) Error(msg string) { l.log(zerolog.ErrorLevel, msg) }

func (l *Logger) log(level zerolog.Level, msg string) {
	if l == nil || l.closed.Load() {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.file == nil {
		return
	}
	l.zl.WithLevel(level).Msg(msg)
}

// Flush syncs buffered entries to disk.
func (l *Logger) Flush() {
	if l == nil || l.closed.Load() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Sync()
	}
}

// Close stops accepting entries and closes the file. The file is kept on
// disk; use RemoveLogFile to delete it.
func (l *Logger) Close() error {
	if l == nil || !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) RemoveLogFile() error {
	if l == nil || l.path == "" {
		return nil
	}
	if err := removeLogFileFn(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

type logEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ExtractRecentErrors returns the messages of the last maxEntries warn or
// error entries, oldest first.
func (l *Logger) ExtractRecentErrors(maxEntries int) []string {
	if l == nil || l.path == "" || maxEntries <= 0 {
		return nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil
	}

	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e logEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		switch e.Level {
		case zerolog.WarnLevel.String(), zerolog.ErrorLevel.String():
			entries = append(entries, e.Message)
		}
	}

	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	return entries
}

// sanitizeLogSuffix maps raw to a filename-safe token. Distinct inputs keep
// distinct outputs by appending a short hash when characters were replaced.
func sanitizeLogSuffix(raw string) string {
	trimmed := strings.TrimSpace(raw)
	var b strings.Builder
	changed := false
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
			changed = true
		}
	}
	out := strings.Trim(b.String(), "-_")
	if out != b.String() {
		changed = true
	}
	if out == "" {
		out = "log"
		changed = true
	}
	if changed {
		h := fnv.New32a()
		_, _ = h.Write([]byte(trimmed))
		out = fmt.Sprintf("%s-%08x", out, h.Sum32())
	}
	return out
}
