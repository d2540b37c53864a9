package logger

import "testing"

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input string
		level Level
		ok    bool
	}{
		{"trace", LevelTrace, true},
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"error", LevelError, true},
		{"critical", LevelCritical, true},
		{"off", LevelOff, true},
		{"WARN", LevelWarn, true},
		{"", LevelInfo, false},
		{"verbose", LevelInfo, false},
	}

	for _, test := range tests {
		level, ok := LevelFromString(test.input)
		if level != test.level || ok != test.ok {
			t.Errorf("LevelFromString(%q): expected (%s, %t), got (%s, %t)",
				test.input, test.level, test.ok, level, ok)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WRN" {
		t.Errorf("String: expected WRN, got %s", LevelWarn)
	}
	if Level(99).String() != "OFF" {
		t.Errorf("String: out-of-range levels must render as OFF, got %s", Level(99))
	}
}
