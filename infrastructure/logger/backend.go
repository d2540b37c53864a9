package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const (
	defaultThresholdKB = 100 * 1000 // 100 MB logs by default.
	defaultMaxRolls    = 8          // keep 8 last logs by default.
)

// Backend is a logging backend. Subsystem loggers created from the backend
// write to the backend's writers. The backend serializes writes from all
// subsystems.
type Backend struct {
	mutex   sync.Mutex
	writers []logWriter
}

type logWriter struct {
	writer   io.WriteCloser
	logLevel Level
}

// NewBackend creates a new logger backend.
func NewBackend() *Backend {
	return &Backend{}
}

// AddLogFile adds a file which the log will write into on a certain log
// level with the default log rotation settings. It'll create the file if
// it doesn't exist.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogWriter adds a type implementing io.WriteCloser which the log will
// write into on a certain log level.
func (b *Backend) AddLogWriter(writer io.WriteCloser, logLevel Level) error {
	if logLevel > LevelOff {
		return errors.Errorf("log level %d is not a valid log level", logLevel)
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writers = append(b.writers, logWriter{writer: writer, logLevel: logLevel})
	return nil
}

// AddLogFileWithCustomRotator adds a file which the log will write into on
// a certain log level, with the specified log rotation settings.
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level,
	thresholdKB int64, maxRolls int) error {

	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	r, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create file rotator for %s", logFile)
	}
	return b.AddLogWriter(r, logLevel)
}

// Close finalizes all writers.
func (b *Backend) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, writer := range b.writers {
		_ = writer.writer.Close()
	}
	b.writers = nil
}

// write formats a log entry and hands it to every writer whose level
// admits it.
func (b *Backend) write(logLevel Level, subsystemTag string, format string, args ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)
	entry := fmt.Sprintf("%s [%s] %-4s %s\n", timestamp, logLevel, subsystemTag, message)

	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, writer := range b.writers {
		if logLevel >= writer.logLevel {
			_, _ = writer.writer.Write([]byte(entry))
		}
	}
}
