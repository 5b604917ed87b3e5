package logger

import "sync/atomic"

// The active logger is process-wide; the launcher's worker thread writes
// through it while main still owns it.
var loggerPtr atomic.Pointer[Logger]

func SetLogger(l *Logger) {
	loggerPtr.Store(l)
}

// CloseLogger detaches and closes the active logger.
func CloseLogger() error {
	logger := loggerPtr.Swap(nil)
	if logger == nil {
		return nil
	}
	return logger.Close()
}

func ActiveLogger() *Logger {
	return loggerPtr.Load()
}

func logWarn(msg string) { LogWarn(msg) }

func LogDebug(msg string) {
	if logger := ActiveLogger(); logger != nil {
		logger.Debug(msg)
	}
}

func LogInfo(msg string) {
	if logger := ActiveLogger(); logger != nil {
		logger.Info(msg)
	}
}

func LogWarn(msg string) {
	if logger := ActiveLogger(); logger != nil {
		logger.Warn(msg)
	}
}

func LogError(msg string) {
	if logger := ActiveLogger(); logger != nil {
		logger.Error(msg)
	}
}
