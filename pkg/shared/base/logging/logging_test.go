// 指示: miu200521358
package logging

import "testing"

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LOG_LEVEL_DEBUG,
		"INFO":    LOG_LEVEL_INFO,
		"":        LOG_LEVEL_INFO,
		"warning": LOG_LEVEL_WARN,
		" error ": LOG_LEVEL_ERROR,
	}
	for input, want := range cases {
		got, err := ParseLogLevel(input)
		if err != nil {
			t.Fatalf("parse failed: input=%q err=%v", input, err)
		}
		if got != want {
			t.Fatalf("level mismatch: input=%q got=%v want=%v", input, got, want)
		}
	}
	if _, err := ParseLogLevel("trace"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSetDefaultLoggerRoundTrip(t *testing.T) {
	prev := DefaultLogger()
	t.Cleanup(func() {
		SetDefaultLogger(prev)
	})

	SetDefaultLogger(nil)
	if DefaultLogger() != nil {
		t.Fatalf("default logger should be nil after reset")
	}
}
