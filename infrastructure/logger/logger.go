package logger

import (
	"os"
	"sync"
	"sync/atomic"
)

// defaultBackend is the backend all subsystem loggers write to. It starts
// with a stderr writer so that logging before configuration is never
// silently dropped.
var (
	defaultBackend = NewBackend()

	registryMutex sync.Mutex
	registry      = make(map[string]*Logger)
)

func init() {
	_ = defaultBackend.AddLogWriter(nopWriteCloser{os.Stderr}, LevelInfo)
}

type nopWriteCloser struct{ *os.File }

func (nopWriteCloser) Close() error { return nil }

// Logger is a subsystem logger. The zero value is not usable; obtain one
// through RegisterSubSystem.
type Logger struct {
	level        uint32
	subsystemTag string
	backend      *Backend
}

// RegisterSubSystem returns the logger for the given subsystem tag,
// creating it at the info level if it doesn't exist yet.
func RegisterSubSystem(subsystemTag string) *Logger {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if logger, ok := registry[subsystemTag]; ok {
		return logger
	}
	logger := &Logger{
		level:        uint32(LevelInfo),
		subsystemTag: subsystemTag,
		backend:      defaultBackend,
	}
	registry[subsystemTag] = logger
	return logger
}

// SetLogLevels sets the logging level of all registered subsystems.
func SetLogLevels(level Level) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	for _, logger := range registry {
		logger.SetLevel(level)
	}
}

// DefaultBackend returns the backend shared by all subsystem loggers, so
// callers can attach log files.
func DefaultBackend() *Backend {
	return defaultBackend
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.level))
}

// SetLevel changes the logging level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.level, uint32(level))
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.backend.write(level, l.subsystemTag, format, args...)
}

// Tracef formats a message according to a format specifier and writes it
// at the trace level.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.write(LevelTrace, format, args...)
}

// Debugf formats a message according to a format specifier and writes it
// at the debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// Infof formats a message according to a format specifier and writes it
// at the info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warnf formats a message according to a format specifier and writes it
// at the warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

// Errorf formats a message according to a format specifier and writes it
// at the error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// Criticalf formats a message according to a format specifier and writes
// it at the critical level.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, format, args...)
}

// Infof and friends cover formatted logging; these cover plain values.

// Trace writes values at the trace level.
func (l *Logger) Trace(args ...interface{}) { l.write(LevelTrace, "%s", sprint(args...)) }

// Debug writes values at the debug level.
func (l *Logger) Debug(args ...interface{}) { l.write(LevelDebug, "%s", sprint(args...)) }

// Info writes values at the info level.
func (l *Logger) Info(args ...interface{}) { l.write(LevelInfo, "%s", sprint(args...)) }

// Warn writes values at the warn level.
func (l *Logger) Warn(args ...interface{}) { l.write(LevelWarn, "%s", sprint(args...)) }

// Error writes values at the error level.
func (l *Logger) Error(args ...interface{}) { l.write(LevelError, "%s", sprint(args...)) }

// Critical writes values at the critical level.
func (l *Logger) Critical(args ...interface{}) { l.write(LevelCritical, "%s", sprint(args...)) }
