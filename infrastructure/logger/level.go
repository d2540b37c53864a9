package logger

import "strings"

// Level is the level at which a logger is configured. All messages sent
// to a level which is below the current level are filtered.
type Level uint32

// Level constants.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// levelNames maps each level to its log-line tag and to the name accepted
// on the command line, in level order.
var levelNames = [...]struct {
	tag  string
	name string
}{
	{"TRC", "trace"},
	{"DBG", "debug"},
	{"INF", "info"},
	{"WRN", "warn"},
	{"ERR", "error"},
	{"CRT", "critical"},
	{"OFF", "off"},
}

// LevelFromString returns the level named by s, matching the names the
// --debuglevel flag documents. If s names no level, the info level and
// false are returned.
func LevelFromString(s string) (l Level, ok bool) {
	s = strings.ToLower(s)
	for i := range levelNames {
		if levelNames[i].name == s {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// String returns the tag of the logger used in log messages, or "OFF" if
// the level will not produce any log output.
func (l Level) String() string {
	if l >= LevelOff {
		return "OFF"
	}
	return levelNames[l].tag
}
