package logger

import (
	"fmt"
	"time"
)

func sprint(args ...interface{}) string {
	return fmt.Sprint(args...)
}

// LogAndMeasureExecutionTime logs that funcName has started, and returns
// a function that, when deferred, logs how long it ran.
func LogAndMeasureExecutionTime(log *Logger, funcName string) (onEnd func()) {
	start := time.Now()
	log.Tracef("%s start", funcName)
	return func() {
		log.Tracef("%s end. Took: %s", funcName, time.Since(start))
	}
}
